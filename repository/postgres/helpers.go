package postgres

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
