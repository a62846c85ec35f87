package store

import (
	"fmt"
	"strconv"
	"strings"
)

func parseOrdinal(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("sno %q is not a number", s)
	}
	return n, nil
}
