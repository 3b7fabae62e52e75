package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/brew-catalog-api/config"
	"github.com/oksasatya/brew-catalog-api/internal/infrastructure/queue"
)

// app-level container to share constructed components across packages.
// Router builds its modules from these singletons. GCS, Elasticsearch and
// RabbitMQ are optional and stay nil when not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	rabbitPub   *queue.RabbitPublisher
	esClient    *elasticsearch.Client
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }
func SetPGPool(p *pgxpool.Pool)  { pgPool = p }
func GetPGPool() *pgxpool.Pool   { return pgPool }
func SetRedis(r *redis.Client)   { redisClient = r }
func GetRedis() *redis.Client    { return redisClient }
func SetGCS(s *storage.Client)   { gcsClient = s }
func GetGCS() *storage.Client    { return gcsClient }

func SetRabbitPub(p *queue.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *queue.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)         { esClient = c }
func GetES() *elasticsearch.Client          { return esClient }
