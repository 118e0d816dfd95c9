package config

type Info struct {
	DB struct {
		Path string `default:"vimmad.sqlite"`
	}
	Log struct {
		Path  string
		Level string `default:"info"`
	}
	Metrics struct {
		Enabled bool   `default:"false"`
		Host    string `default:""`
		Port    uint   `default:"2224"`
	}
	Tasks struct {
		// number of concurrent request workers
		Workers          int   `default:"4"`
		RetryBaseMillis  int64 `default:"100"`
		RetryMaxAttempts int   `default:"5"`
	}
	VM struct {
		DefaultExpirySecs    int64 `default:"7776000"` // 90 days
		GraceIntervalSecs    int64 `default:"1209600"` // 14 days
		CreationOverrideSecs int64 `default:"3600"`
		// offsets in seconds relative to the expiration date,
		// negative is before, positive is after
		NotificationIntervalsSecs []int64
	}
	Firewall struct {
		NormalRuleExpirySecs  int64 `default:"7776000"`
		SpecialRuleExpirySecs int64 `default:"604800"`
		TrustedNetworks       []string
	}
	Sweeps struct {
		StatusPollIntervalSecs      int64 `default:"300"`
		ExpirationSweepIntervalSecs int64 `default:"3600"`
	}
	Seed struct {
		Path string
	}
}

var Config Info
