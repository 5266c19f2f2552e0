package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/forgeline/craft-api/internal/catalog"
	"github.com/forgeline/craft-api/internal/eligibility"
	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/orchestrators/craft"
	"github.com/forgeline/craft-api/internal/orchestrators/progression"
	"github.com/forgeline/craft-api/internal/pkg/clock"
	"github.com/forgeline/craft-api/internal/pkg/idgen"
	"github.com/forgeline/craft-api/internal/pkg/rng"
	redisclient "github.com/forgeline/craft-api/internal/redis"
	historyrepo "github.com/forgeline/craft-api/internal/repositories/history"
	inventoryrepo "github.com/forgeline/craft-api/internal/repositories/inventory"
	professionrepo "github.com/forgeline/craft-api/internal/repositories/profession"
	workshoprepo "github.com/forgeline/craft-api/internal/repositories/workshop"
)

var (
	grpcPort          int
	redisAddress      string
	catalogPath       string
	gatherRetention   time.Duration
	adminRetention    time.Duration
	craftRetention    time.Duration
	catalogReloadSecs int
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the crafting engine server",
	Long:  `Start the crafting engine with its catalog loaded and all stores wired.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 50051, "gRPC server port")
	serverCmd.Flags().StringVar(&redisAddress, "redis-address", "localhost:6379", "Redis address")
	serverCmd.Flags().StringVar(&catalogPath, "catalog", "catalog.json", "Path to the catalog JSON file")
	serverCmd.Flags().DurationVar(&craftRetention, "craft-history-retention", 0, "Craft attempt record retention (0 keeps forever)")
	serverCmd.Flags().DurationVar(&gatherRetention, "gather-retention", 90*24*time.Hour, "Gather record retention")
	serverCmd.Flags().DurationVar(&adminRetention, "admin-retention", 180*24*time.Hour, "Admin record retention")
	serverCmd.Flags().IntVar(&catalogReloadSecs, "catalog-reload-seconds", 0, "Catalog reload interval (0 disables)")
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	source, err := catalog.NewFileSource(catalogPath)
	if err != nil {
		return fmt.Errorf("invalid catalog path: %w", err)
	}

	// A catalog that fails validation (cycles, dangling refs) aborts
	// startup here
	catalogStore, err := catalog.New(ctx, &catalog.Config{Source: source})
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	client, err := redisclient.NewClient(redisAddress, nil)
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}

	// The engine is consumed in-process by the surrounding game
	// service; no wire format is part of this core, so the process
	// exposes only health and reflection. Building the full service
	// here still validates catalog, stores, and orchestrator wiring
	// before the server reports healthy.
	if _, err := buildCraftService(catalogStore, client); err != nil {
		return fmt.Errorf("failed to wire crafting engine: %w", err)
	}

	if catalogReloadSecs > 0 {
		go reloadCatalogLoop(ctx, catalogStore, time.Duration(catalogReloadSecs)*time.Second)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", grpcPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("crafting engine listening on port %d...", grpcPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			log.Println("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			log.Println("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// buildCraftService wires the full engine: stores, resolver, ledger,
// and the craft orchestrator on top
func buildCraftService(catalogStore *catalog.Store, client redisclient.Client) (craft.Service, error) {
	inventory, err := inventoryrepo.NewRedisRepository(&inventoryrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	states, err := professionrepo.NewRedisRepository(&professionrepo.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	workshops, err := workshoprepo.NewRedisRepository(&workshoprepo.RedisConfig{Client: client})
	if err != nil {
		return nil, err
	}
	history, err := historyrepo.NewRedisRepository(&historyrepo.RedisConfig{
		Client: client,
		RetentionByCategory: map[crafting.RecordCategory]time.Duration{
			crafting.RecordCategoryCraftAttempt: craftRetention,
			crafting.RecordCategoryGather:       gatherRetention,
			crafting.RecordCategoryAdmin:        adminRetention,
		},
	})
	if err != nil {
		return nil, err
	}

	resolver := eligibility.NewResolver()

	ledger, err := progression.NewOrchestrator(&progression.Config{
		Catalog:   catalogStore,
		StateRepo: states,
		Resolver:  resolver,
	})
	if err != nil {
		return nil, err
	}

	return craft.NewOrchestrator(&craft.Config{
		Catalog:       catalogStore,
		Resolver:      resolver,
		InventoryRepo: inventory,
		StateRepo:     states,
		WorkshopRepo:  workshops,
		HistoryRepo:   history,
		Ledger:        ledger,
		Roller:        rng.New(),
		Clock:         clock.New(),
		IDGenerator:   idgen.NewUUID("attempt"),
	})
}

func reloadCatalogLoop(ctx context.Context, store *catalog.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// A bad reload keeps the previous snapshot serving
			if err := store.Reload(ctx); err != nil {
				log.Printf("catalog reload failed, keeping current snapshot: %v", err)
			}
		}
	}
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	log.Printf("[%v] %s %v", level, msg, fields)
}
