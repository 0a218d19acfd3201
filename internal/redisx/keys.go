package redisx

import "time"

const (
	// Daily sale-number sequence: seq:sale:{YYYYMMDD} -> counter
	KeySaleSequence = "seq:sale:%s"

	// Dashboard stats cache: cache:dashboard:stats -> JSON blob
	KeyDashboardStats = "cache:dashboard:stats"
)

var (
	TTLSaleSequence   = 48 * time.Hour
	TTLDashboardStats = 1 * time.Minute
)
