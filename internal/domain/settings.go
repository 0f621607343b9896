package domain

// EmailConfig holds optional outbound SMTP settings.
type EmailConfig struct {
	Host     string
	Port     int
	UseTLS   bool
	User     string
	Password string
}

// Enabled reports whether outbound mail is configured at all.
func (e EmailConfig) Enabled() bool {
	return e.Host != ""
}

// S3Config holds optional external-storage credentials. When Bucket is empty
// the local disk backend is used.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
}

// Enabled reports whether the S3 media backend is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}
