package panic

import "errors"

func decode(raw string) string {
	if raw == "" {
		panic(errors.New("empty row")) // want "panic\\(\\) should not be used, return an error instead"
	}
	return raw
}
