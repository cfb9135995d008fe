package hostinfo

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v3/host"
)

// Hostname имя локального хоста для поля host в сериях.
// Если gopsutil не смог получить сведения о хосте, используется os.Hostname.
func Hostname(ctx context.Context) string {
	info, err := host.InfoWithContext(ctx)
	if err == nil && info.Hostname != "" {
		return info.Hostname
	}

	name, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return name
}
