package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Settings collects every env lookup in one place. Load after godotenv has
// run in main.
type Settings struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	CORSOrigins []string

	LowStockThreshold int64
	DigestRecipient   string
	DigestTime        string

	UploadDir string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	CDNDomain   string
}

func Load() Settings {
	s := Settings{
		Port:              getenv("PORT", "1414"),
		MongoURI:          getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:     getenv("MONGO_DATABASE", "restaurant"),
		LowStockThreshold: 5,
		DigestRecipient:   os.Getenv("LOW_STOCK_DIGEST_TO"),
		DigestTime:        getenv("LOW_STOCK_DIGEST_AT", "08:00"),
		UploadDir:         getenv("UPLOAD_DIR", "./uploads"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKey:       os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:       os.Getenv("S3_SECRET_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		CDNDomain:         os.Getenv("CDN_DOMAIN"),
	}
	if v := os.Getenv("LOW_STOCK_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			s.LowStockThreshold = n
		}
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				s.CORSOrigins = append(s.CORSOrigins, o)
			}
		}
	}
	return s
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ConnectDatabase dials Mongo and verifies the connection. The returned
// database handle is passed down by constructor, nothing global.
func ConnectDatabase(s Settings) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client.Database(s.MongoDatabase), nil
}
