package redisx

import "time"

const (
	// Session snapshots: snap:{cart|token}:{session_id} -> serialized blob
	KeySnapshot = "snap:%s"

	// Store profile cache: store_profile:{slug} -> serialized StoreProfile
	KeyStoreProfile = "store_profile:%s"
)

var (
	// Snapshot hidup selama 30 hari idle, sama seperti localStorage yang
	// praktis tidak pernah expire untuk buyer aktif.
	TTLSnapshot = 30 * 24 * time.Hour

	TTLStoreProfile = 5 * time.Minute
)
