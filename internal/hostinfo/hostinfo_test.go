package hostinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostname(t *testing.T) {
	name := Hostname(context.Background())
	assert.NotEmpty(t, name)
}
