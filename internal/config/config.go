package config

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/kubev2v/capacity-planner/pkg/objectstore"
)

var singleConfig *Config = nil

type Config struct {
	Service     *svcConfig
	ObjectStore *objectStoreConfig
	Sizing      *sizingConfig
	Events      *eventsConfig
}

type svcConfig struct {
	Address        string   `envconfig:"CAPACITY_PLANNER_ADDRESS" default:":3443"`
	MetricsAddress string   `envconfig:"CAPACITY_PLANNER_METRICS_ADDRESS" default:":8080"`
	LogLevel       string   `envconfig:"CAPACITY_PLANNER_LOG_LEVEL" default:"info"`
	MaxUploadSize  int64    `envconfig:"CAPACITY_PLANNER_MAX_UPLOAD_SIZE" default:"104857600"`
	AllowedOrigins []string `envconfig:"CAPACITY_PLANNER_ALLOWED_ORIGINS" default:"*"`
}

// objectStoreConfig is the S3 compatible bucket exports are published to.
// An empty endpoint disables publishing.
type objectStoreConfig struct {
	Endpoint  string `envconfig:"CAPACITY_PLANNER_S3_ENDPOINT" default:""`
	Bucket    string `envconfig:"CAPACITY_PLANNER_S3_BUCKET" default:"capacity-planner"`
	AccessKey string `envconfig:"CAPACITY_PLANNER_S3_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"CAPACITY_PLANNER_S3_SECRET_KEY" default:""`
	Region    string `envconfig:"CAPACITY_PLANNER_S3_REGION" default:""`
	UseSSL    bool   `envconfig:"CAPACITY_PLANNER_S3_USE_SSL" default:"true"`
}

type sizingConfig struct {
	CacheSize int `envconfig:"CAPACITY_PLANNER_CACHE_SIZE" default:"16"`
}

// eventsConfig turns on the activity events. They are written to the log.
type eventsConfig struct {
	Enabled bool   `envconfig:"CAPACITY_PLANNER_EVENTS_ENABLED" default:"false"`
	Topic   string `envconfig:"CAPACITY_PLANNER_EVENTS_TOPIC" default:"capacity.planner.events"`
}

func (o *objectStoreConfig) Enabled() bool {
	return o != nil && o.Endpoint != ""
}

// MinioOpts configures an uploader for the bucket.
func (o *objectStoreConfig) MinioOpts() []objectstore.MinioOpts {
	return []objectstore.MinioOpts{
		objectstore.WithEndpoint(o.Endpoint),
		objectstore.WithBucket(o.Bucket),
		objectstore.WithRegion(o.Region),
		objectstore.WithAccessKey(o.AccessKey),
		objectstore.WithSecretKey(o.SecretKey),
		objectstore.WithSSL(o.UseSSL),
	}
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
