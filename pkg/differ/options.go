package differ

// Option configures a Differ.
type Option func(*differ)

// WithOrderedIPs makes host group IP lists compare position by position.
func WithOrderedIPs() Option {
	return func(d *differ) {
		d.orderedIPs = true
	}
}
