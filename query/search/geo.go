// Copyright 2022-2023 Tigris Data, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package search

import (
	"github.com/zerojuls/search-api/errors"
	"github.com/zerojuls/search-api/query/filter"
	"github.com/zerojuls/search-api/schema"
)

func (l *lowering) requireGeoPoint(name string) error {
	if !l.meta.IsTypeOf(name, schema.GeoPointType) {
		return errors.Validation("field '%s' is not a geo point", name)
	}

	return nil
}

// viewport builds a bounding box from the north east and south west corners given as [lon,lat].
func (l *lowering) viewport(name string, points []filter.GeoPoint) (Query, error) {
	if err := l.requireGeoPoint(name); err != nil {
		return nil, err
	}

	ne, sw := points[0], points[1]
	return &GeoBoundingBoxQuery{
		Field:       name,
		TopLeft:     LatLon{Lat: ne.Lat, Lon: sw.Lon},
		BottomRight: LatLon{Lat: sw.Lat, Lon: ne.Lon},
	}, nil
}

// polygon swaps every [lon,lat] point and closes the ring when the last point differs from the first.
func (l *lowering) polygon(name string, points []filter.GeoPoint) (Query, error) {
	if err := l.requireGeoPoint(name); err != nil {
		return nil, err
	}

	ring := make([]LatLon, 0, len(points)+1)
	for _, p := range points {
		ring = append(ring, LatLon{Lat: p.Lat, Lon: p.Lon})
	}
	if ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}

	return &GeoPolygonQuery{Field: name, Points: ring}, nil
}
