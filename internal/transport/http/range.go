package http

import (
	"errors"
	"strconv"
	"strings"
)

var (
	errMalformedRange     = errors.New("malformed range header")
	errUnsatisfiableRange = errors.New("range not satisfiable")
)

// parseRange resolves a "bytes=<start>-[<end>]" header against a resource of
// the given length. An absent header means the whole resource (bytes=0-); a
// missing end means length-1 and a provided end is clamped there.
func parseRange(header string, length int64) (start, end int64, err error) {
	if header == "" {
		return 0, length - 1, nil
	}
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, errMalformedRange
	}
	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, errMalformedRange
	}
	start, err = strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return 0, 0, errMalformedRange
	}
	end = length - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return 0, 0, errMalformedRange
		}
		if end > length-1 {
			end = length - 1
		}
	}
	if start >= length || start > end {
		return 0, 0, errUnsatisfiableRange
	}
	return start, end, nil
}
