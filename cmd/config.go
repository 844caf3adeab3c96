package cmd

type Config struct {
	HTTPPort       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	NotifierURL    string
	CatalogBaseURL string
	PublicBaseURL  string
	SystemUserID   string
}
