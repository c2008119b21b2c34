package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"docvault/internal/config"
	models "docvault/internal/domain/models/docstore"
	docstoreSvc "docvault/internal/domain/services/docstore"
	"docvault/internal/notify"
	"docvault/internal/repository/postgres"
	postgresDocstore "docvault/internal/repository/postgres/docstore"
	serviceDocstore "docvault/internal/service/docstore"
)

// seedFixture is the YAML shape describing demo trees per user.
type seedFixture struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	ID    string     `yaml:"id"`
	Items []seedItem `yaml:"items"`
}

type seedItem struct {
	Name          string                 `yaml:"name"`
	Type          string                 `yaml:"type"` // "file" or "folder"
	MimeType      string                 `yaml:"mime_type"`
	Size          int64                  `yaml:"size"`
	Status        string                 `yaml:"status"`
	ExtractedText []models.ExtractedPage `yaml:"extracted_text"`
	Children      []seedItem             `yaml:"children"`
}

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop the items table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed items")
	fixturePath := flag.String("fixture", "cmd/seed/fixture.yaml", "Path to the YAML seed fixture")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping items table...")
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", tables.Items)); err != nil {
			log.Fatalf("Failed to drop table: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	itemRepo := postgresDocstore.NewItemRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)
	itemService := serviceDocstore.NewItemService(itemRepo, txManager, notify.NewLogNotifier(logger), logger)

	total := 0
	for _, user := range fixture.Users {
		n, err := seedTree(ctx, itemService, user.ID, nil, user.Items)
		if err != nil {
			log.Fatalf("Failed to seed items for user %s: %v", user.ID, err)
		}
		total += n
	}

	log.Printf("Seeding complete: %d items across %d users", total, len(fixture.Users))
}

// runSchema creates the items table and its listing indexes. The parent_id
// foreign key uses the default NO ACTION so a subtree can be removed in a
// single DELETE statement (checks run at statement end).
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				parent_id TEXT REFERENCES %s(id),
				item_type TEXT NOT NULL CHECK (item_type IN ('file', 'folder')),
				name VARCHAR(255) NOT NULL,
				path VARCHAR(500) NOT NULL,
				mime_type TEXT NOT NULL,
				size_bytes BIGINT NOT NULL DEFAULT 0,
				status TEXT,
				extracted_text JSONB,
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL
			)
		`, tables.Items, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_children ON %s (parent_id)`,
			tables.Items, tables.Items),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_listing ON %s (user_id, parent_id, item_type, created_at, id)`,
			tables.Items, tables.Items),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func loadFixture(path string) (*seedFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}

	var fixture seedFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fixture, nil
}

// seedTree inserts a fixture subtree through the service layer so the same
// validation and path derivation apply as in normal operation.
func seedTree(ctx context.Context, items docstoreSvc.ItemService, userID string, parentID *string, nodes []seedItem) (int, error) {
	count := 0
	for _, node := range nodes {
		switch node.Type {
		case "folder":
			folder, err := items.CreateFolder(ctx, &docstoreSvc.CreateFolderRequest{
				UserID:   userID,
				ParentID: parentID,
				Name:     node.Name,
			})
			if err != nil {
				return count, fmt.Errorf("create folder %q: %w", node.Name, err)
			}
			count++

			n, err := seedTree(ctx, items, userID, &folder.ID, node.Children)
			count += n
			if err != nil {
				return count, err
			}

		case "file":
			req := &docstoreSvc.CreateDocumentRequest{
				UserID:        userID,
				ParentID:      parentID,
				Name:          node.Name,
				MimeType:      node.MimeType,
				Size:          node.Size,
				ExtractedText: node.ExtractedText,
			}
			if node.Status != "" {
				status := models.Status(node.Status)
				req.Status = &status
			}
			if _, err := items.CreateDocument(ctx, req); err != nil {
				return count, fmt.Errorf("create document %q: %w", node.Name, err)
			}
			count++

		default:
			return count, fmt.Errorf("item %q: unknown type %q", node.Name, node.Type)
		}
	}
	return count, nil
}
