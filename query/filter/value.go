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

package filter

import (
	"fmt"
	"strconv"

	"github.com/zerojuls/search-api/errors"
)

// Value is a literal operand of a comparison. It holds nil for null, a bool, an int64, a float64, a string or
// a []Value for bracketed lists.
type Value = any

// GeoPoint is a coordinate given as [lon, lat].
type GeoPoint struct {
	Lon float64
	Lat float64
}

func IsNull(v Value) bool {
	return v == nil
}

func isScalar(v Value) bool {
	switch v.(type) {
	case bool, int64, float64, string:
		return true
	}
	return false
}

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// FormatValue renders a scalar the way it is sent to the backend as a term.
func FormatValue(v Value) string {
	switch s := v.(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return "null"
	}
	return fmt.Sprint(v)
}

// validateArity checks that the value has the shape required by the operator.
func validateArity(f Field, op RelationalOperator, v Value) error {
	switch op {
	case Equal, Different:
		if v != nil && !isScalar(v) {
			return errors.Validation("operator %s on field '%s' requires a single value", op, f.Name())
		}
	case Greater, GreaterEqual, Less, LessEqual, Like:
		if !isScalar(v) {
			return errors.Validation("operator %s on field '%s' requires a single non null value", op, f.Name())
		}
	case Range:
		list, ok := v.([]Value)
		if !ok || len(list) != 2 || !isScalar(list[0]) || !isScalar(list[1]) {
			return errors.Validation("operator %s on field '%s' requires exactly two values [from,to]", op, f.Name())
		}
	case In:
		list, ok := v.([]Value)
		if !ok || len(list) == 0 {
			return errors.Validation("operator %s on field '%s' requires a non empty list of values", op, f.Name())
		}
		for _, e := range list {
			if !isScalar(e) {
				return errors.Validation("operator %s on field '%s' accepts only single values in its list", op, f.Name())
			}
		}
	case Viewport:
		points, err := toPoints(v)
		if err != nil || len(points) != 2 {
			return errors.Validation("operator %s on field '%s' requires exactly two [lon,lat] points", op, f.Name())
		}
	case Polygon:
		points, err := toPoints(v)
		if err != nil || len(points) < 3 {
			return errors.Validation("operator %s on field '%s' requires at least three [lon,lat] points", op, f.Name())
		}
		if distinctPoints(points) < 3 {
			return errors.Validation("operator %s on field '%s' requires at least three distinct [lon,lat] points", op, f.Name())
		}
	default:
		return errors.Validation("unknown operator on field '%s'", f.Name())
	}

	return nil
}

func distinctPoints(points []GeoPoint) int {
	seen := make(map[GeoPoint]struct{}, len(points))
	for _, p := range points {
		seen[p] = struct{}{}
	}

	return len(seen)
}

func toPoints(v Value) ([]GeoPoint, error) {
	list, ok := v.([]Value)
	if !ok {
		return nil, fmt.Errorf("not a list of points")
	}

	points := make([]GeoPoint, 0, len(list))
	for _, p := range list {
		pair, ok := p.([]Value)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("point is not a [lon,lat] pair")
		}
		lon, ok1 := toFloat(pair[0])
		lat, ok2 := toFloat(pair[1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("point coordinates must be numbers")
		}
		points = append(points, GeoPoint{Lon: lon, Lat: lat})
	}

	return points, nil
}
