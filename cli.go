package main

import (
	"os"
	"strconv"

	"github.com/zipshard/zipshard/internal/salvage"
)

// calcPageSize overrides the default page size with BEZ_PAGE: a strict
// parse of a single environment variable, panicking on anything
// malformed rather than silently falling back.
func calcPageSize() int64 {
	if e := os.Getenv("BEZ_PAGE"); e != "" {
		n, err := strconv.ParseInt(e, 0, 64)
		if err != nil || n <= 0 {
			panic("malformed BEZ_PAGE environment variable, should be a positive byte count: " + e)
		}
		return n
	}
	return salvage.DefaultPageSize
}
