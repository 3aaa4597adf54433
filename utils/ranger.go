package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDim converts a range phrase into a half-open range [i1, i2) over
// [0, max):
//
//	":"   = full range, 0 to max
//	"end" = last index
//	"N"   = single index N
//	"a:b" = a to b (loop indexing)
//	":b"  = 0 to b
//	"a:"  = a to max
func ParseDim(dimI interface{}, max int) (i1, i2 int, err error) {
	switch dim := dimI.(type) {
	case string:
		switch strings.TrimSpace(dim) {
		case "end":
			i1, i2 = max-1, max
		case ":", "":
			i1, i2 = 0, max
		default:
			if i1, i2, err = parseRange(strings.TrimSpace(dim), max); err != nil {
				return
			}
		}
	case int:
		i1, i2 = dim, dim+1
	default:
		err = fmt.Errorf("unsupported range type %T", dimI)
		return
	}
	if i1 < 0 || i2 > max || i1 >= i2 {
		err = fmt.Errorf("range %v is outside [0, %d)", dimI, max)
	}
	return
}

func parseRange(dim string, max int) (i1, i2 int, err error) {
	var (
		splits = strings.Split(dim, ":")
	)
	if len(splits) > 2 {
		err = fmt.Errorf("malformed range %q", dim)
		return
	}
	if len(splits[0]) == 0 {
		i1 = 0
	} else if i1, err = strconv.Atoi(splits[0]); err != nil {
		return
	}
	if len(splits) == 1 {
		i2 = i1 + 1
		return
	}
	if len(splits[1]) == 0 {
		i2 = max
	} else if i2, err = strconv.Atoi(splits[1]); err != nil {
		return
	}
	if i2 == i1 {
		i2 = i1 + 1
	}
	return
}

// ParseRegion converts one range phrase per axis into a sub-box of box.
func ParseRegion(phrases []string, box Box) (region Box, err error) {
	if len(phrases) != box.NDim() {
		err = NewValidationError("region", "have %d ranges for %d axes", len(phrases), box.NDim())
		return
	}
	region = Box{Lo: NewIndex(box.NDim()), Hi: NewIndex(box.NDim())}
	for a, phrase := range phrases {
		var i1, i2 int
		if i1, i2, err = ParseDim(phrase, box.Extent(a)); err != nil {
			err = NewValidationError("region", "axis %d: %v", a, err)
			return
		}
		region.Lo[a] = box.Lo[a] + i1
		region.Hi[a] = box.Lo[a] + i2 - 1
	}
	return
}
