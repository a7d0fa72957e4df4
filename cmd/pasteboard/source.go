package main

import "os"

var (
	getenv   = os.Getenv
	hostname = os.Hostname
)

func isContainerID(s string) bool {
	if len(s) < 12 || len(s) > 64 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// defaultSource returns a human-readable identifier for this host.
func defaultSource() string {
	for _, env := range []string{
		"CONTAINER_NAME",
		"COMPOSE_SERVICE",
		"SERVICE_NAME",
		"HOSTNAME_FRIENDLY",
	} {
		if v := getenv(env); v != "" {
			return v
		}
	}
	h, err := hostname()
	if err != nil {
		return "unknown"
	}
	if isContainerID(h) {
		return "container-" + h[:8]
	}
	return h
}
