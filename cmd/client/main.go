package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/hexdeck-client/internal/api"
	"github.com/palemoky/hexdeck-client/internal/config"
	"github.com/palemoky/hexdeck-client/internal/credstore"
	"github.com/palemoky/hexdeck-client/internal/logger"
	"github.com/palemoky/hexdeck-client/internal/metrics"
	"github.com/palemoky/hexdeck-client/internal/session"
	"github.com/palemoky/hexdeck-client/internal/sound"
	"github.com/palemoky/hexdeck-client/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径 (YAML)")
	serverURL := flag.String("server", "", "服务器地址，例如 http://localhost:3000")
	username := flag.String("name", "", "玩家昵称")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *username != "" {
		cfg.Player.UsernameProposal = *username
	}
	if *verbose {
		cfg.Log.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("配置无效: %v", err)
	}

	if err := logger.Init(cfg.Log.Dir); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Close()
	logger.SetVerbose(cfg.Log.Verbose)

	backend, closeBackend, err := newBackend(cfg.Storage)
	if err != nil {
		log.Fatalf("初始化凭据存储失败: %v", err)
	}
	defer closeBackend()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, m)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
	}

	router := ui.NewRouter()
	sess := session.New(session.Options{
		API: api.NewClient(cfg.Server.URL,
			api.WithTimeout(cfg.Server.RequestTimeoutDuration()),
			api.WithObserver(m),
		),
		Credentials:      credstore.New(backend),
		WSURL:            cfg.Server.WSURL(),
		UsernameProposal: cfg.Player.UsernameProposal,
		Location:         router,
		Recorder:         m,
	})
	sess.CheckSessionData(context.Background())

	var sounds ui.Sounds = nopSounds{}
	if !cfg.Sound.Disabled {
		sm := sound.NewSoundManager(cfg.Sound.Dir)
		go func() {
			if err := sm.Init(); err != nil {
				logger.LogWarn("初始化音效失败: %v", err)
			}
		}()
		defer sm.Close()
		sounds = sm
	}

	model := ui.NewModel(sess, router, sounds)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	model.Close()
	// 退出时保留凭据，下次启动可以重新加入
	sess.Disconnect()
	sess.Wait()

	if runErr != nil {
		logger.LogError("客户端异常退出: %v", runErr)
		log.Fatalf("启动客户端时出错: %v", runErr)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newBackend 按配置创建凭据存储后端
func newBackend(cfg config.StorageConfig) (credstore.Backend, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return credstore.NewMemoryBackend(), func() {}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return credstore.NewRedisBackend(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil

	default:
		dir := cfg.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, err
			}
			dir = filepath.Join(home, ".hexdeck")
		}
		backend, err := credstore.NewFileBackend(dir)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() {}, nil
	}
}

func serveMetrics(addr string, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError("metrics server: %v", err)
		}
	}()
	logger.LogInfo("metrics listening on %s", addr)
	return srv
}

type nopSounds struct{}

func (nopSounds) Play(string) {}
