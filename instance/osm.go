package instance

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"github.com/katalvlaran/planar2opt/geom"
)

// OSMFormat selects the on-disk encoding of an OSM extract.
type OSMFormat int

const (
	// FormatPBF is the protobuf binary format (.osm.pbf).
	FormatPBF OSMFormat = iota
	// FormatXML is the plain XML format (.osm).
	FormatXML
)

// FormatFromPath guesses the format from a file name.
func FormatFromPath(path string) OSMFormat {
	if strings.HasSuffix(strings.ToLower(path), ".osm") {
		return FormatXML
	}

	return FormatPBF
}

// OSMOptions filters the nodes of an extract.
type OSMOptions struct {
	Format OSMFormat
	// Tag is "key" (any value) or "key=value"; empty keeps every node.
	Tag string
	// BBox in lon/lat; the zero bound keeps everything.
	BBox orb.Bound
	// Limit stops the scan after this many points; 0 means no limit.
	Limit int
}

// scanner is the part of osmpbf.Scanner and osmxml.Scanner used here.
type scanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

// LoadOSM reads nodes from an OSM extract, keeps those matching opts and
// projects them to Web Mercator metres. Identities are 0..n-1 in scan order.
func LoadOSM(ctx context.Context, r io.Reader, opts OSMOptions) ([]geom.Point, error) {
	var sc scanner
	switch opts.Format {
	case FormatXML:
		sc = osmxml.New(ctx, r)
	default:
		pbf := osmpbf.New(ctx, r, 1)
		pbf.SkipWays = true
		pbf.SkipRelations = true
		sc = pbf
	}
	defer sc.Close()

	return collectNodes(sc, opts)
}

// collectNodes drains sc and applies the filters.
func collectNodes(sc scanner, opts OSMOptions) ([]geom.Point, error) {
	var (
		key, value, _ = strings.Cut(opts.Tag, "=")
		wantValue     = strings.Contains(opts.Tag, "=")
		useBBox       = opts.BBox != orb.Bound{}
		pts           []geom.Point
	)
	for sc.Scan() {
		n, ok := sc.Object().(*osm.Node)
		if !ok {
			continue
		}
		if key != "" {
			v := n.Tags.Find(key)
			if v == "" || (wantValue && v != value) {
				continue
			}
		}
		ll := orb.Point{n.Lon, n.Lat}
		if useBBox && !opts.BBox.Contains(ll) {
			continue
		}

		m := project.WGS84.ToMercator(ll)
		pts = append(pts, geom.Point{ID: len(pts), X: m[0], Y: m[1]})
		if opts.Limit > 0 && len(pts) >= opts.Limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("instance: scan osm: %w", err)
	}
	if len(pts) == 0 {
		return nil, ErrNoPoints
	}

	return pts, nil
}
