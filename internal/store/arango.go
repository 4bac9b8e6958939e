package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/arangodb/go-driver/v2/connection"

	"floorwatch.app/tracker/common/id"
	"floorwatch.app/tracker/core/config"
	"floorwatch.app/tracker/internal/model"
)

const (
	issuesCollection = "issues"
	eventsCollection = "issue_events"
)

// arangoTimeLayout is RFC 3339 with a fixed-width nanosecond fraction.
// time.RFC3339Nano trims trailing fractional zeros, which breaks the
// lexicographic-equals-chronological property AQL SORT relies on.
const arangoTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func arangoTime(t time.Time) string {
	return t.UTC().Format(arangoTimeLayout)
}

// Arango wraps one ArangoDB database holding the issue collections.
type Arango struct {
	arangoClient arangodb.Client
	db           arangodb.Database
	cfg          config.ArangoDBConfig
}

func NewArango(ctx context.Context, cfg config.ArangoDBConfig) (*Arango, error) {
	if cfg.URL == "" || cfg.Database == "" {
		return nil, fmt.Errorf("arangodb URL and database name are required")
	}

	endpoint := connection.NewRoundRobinEndpoints([]string{cfg.URL})
	conn := connection.NewHttp2Connection(connection.DefaultHTTP2ConfigurationWrapper(endpoint, true))

	auth := connection.NewBasicAuth(cfg.Username, cfg.Password)
	if err := conn.SetAuthentication(auth); err != nil {
		return nil, fmt.Errorf("arangodb auth: %w", err)
	}

	return &Arango{
		arangoClient: arangodb.NewClient(conn),
		cfg:          cfg,
	}, nil
}

func (a *Arango) EnsureDatabase(ctx context.Context) error {
	start := time.Now()

	exists, err := a.arangoClient.DatabaseExists(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("check database exists: %w", err)
	}

	if !exists {
		_, err = a.arangoClient.CreateDatabase(ctx, a.cfg.Database, nil)
		if err != nil {
			return fmt.Errorf("create database: %w", err)
		}
		slog.InfoContext(ctx, "arangodb database created",
			"database", a.cfg.Database,
			"duration_ms", time.Since(start).Milliseconds())
	}

	db, err := a.arangoClient.GetDatabase(ctx, a.cfg.Database, nil)
	if err != nil {
		return fmt.Errorf("get database: %w", err)
	}
	a.db = db

	return nil
}

func (a *Arango) EnsureCollections(ctx context.Context) error {
	if a.db == nil {
		return fmt.Errorf("database not initialized, call EnsureDatabase first")
	}

	for _, name := range []string{issuesCollection, eventsCollection} {
		exists, err := a.db.CollectionExists(ctx, name)
		if err != nil {
			return fmt.Errorf("check collection %s exists: %w", name, err)
		}
		if exists {
			continue
		}

		colType := arangodb.CollectionTypeDocument
		_, err = a.db.CreateCollectionV2(ctx, name, &arangodb.CreateCollectionPropertiesV2{
			Type: &colType,
		})
		if err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
		slog.InfoContext(ctx, "arangodb collection created", "collection", name)
	}

	// Every query is scoped by factory and ordered by creation time.
	col, err := a.db.GetCollection(ctx, issuesCollection, nil)
	if err != nil {
		return fmt.Errorf("get collection %s: %w", issuesCollection, err)
	}
	_, _, err = col.EnsurePersistentIndex(ctx, []string{"factoryId", "createdAt"}, nil)
	if err != nil {
		return fmt.Errorf("ensure factory index: %w", err)
	}

	return nil
}

// issueStore is the server-side, authoritative IssueStore backed by the
// shared ArangoDB issues collection.
type issueStore struct {
	db arangodb.Database
}

func NewIssueStore(a *Arango) IssueStore {
	return &issueStore{db: a.db}
}

func (s *issueStore) Create(ctx context.Context, draft model.IssueDraft) (*model.Issue, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	issue := model.NewIssue(draft, id.New(), time.Now().UTC())

	query := `INSERT @doc INTO issues RETURN NEW`
	cursor, err := s.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"doc": issueDocument(issue),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	defer cursor.Close()

	stored, err := readOneIssue(ctx, cursor)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "issue created",
		"issue_id", stored.ID,
		"factory_id", stored.FactoryID)

	return stored, nil
}

func (s *issueStore) ListByFactory(ctx context.Context, factoryID string) ([]model.Issue, error) {
	start := time.Now()

	query := `
		FOR d IN issues
			FILTER d.factoryId == @factoryId
			SORT d.createdAt DESC
			RETURN d
	`
	cursor, err := s.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"factoryId": factoryID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer cursor.Close()

	issues := []model.Issue{}
	for cursor.HasMore() {
		var doc issueDoc
		if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
			return nil, fmt.Errorf("read issue document: %w", err)
		}
		issues = append(issues, doc.toModel())
	}

	slog.DebugContext(ctx, "issues listed",
		"factory_id", factoryID,
		"count", len(issues),
		"duration_ms", time.Since(start).Milliseconds())

	return issues, nil
}

func (s *issueStore) UpdateStatus(ctx context.Context, issueID, _ string, status model.Status) (*model.Issue, error) {
	query := `
		FOR d IN issues
			FILTER d._key == @key
			UPDATE d WITH { status: @status, updatedAt: @updatedAt } IN issues
			RETURN NEW
	`
	cursor, err := s.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"key":       issueID,
			"status":    string(status),
			"updatedAt": arangoTime(time.Now()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("update issue status: %w", err)
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return nil, ErrNotFound
	}

	updated, err := readOneIssue(ctx, cursor)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "issue status updated",
		"issue_id", updated.ID,
		"factory_id", updated.FactoryID,
		"status", updated.Status)

	return updated, nil
}

// issueEventStore appends lifecycle events to the issue_events collection.
type issueEventStore struct {
	db arangodb.Database
}

func NewIssueEventStore(a *Arango) IssueEventStore {
	return &issueEventStore{db: a.db}
}

func (s *issueEventStore) Record(ctx context.Context, event model.IssueEvent) error {
	query := `INSERT @doc INTO issue_events`
	cursor, err := s.db.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]any{
			"doc": map[string]any{
				"issueId":    event.IssueID,
				"factoryId":  event.FactoryID,
				"type":       string(event.Type),
				"status":     string(event.Status),
				"occurredAt": arangoTime(event.OccurredAt),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("record issue event: %w", err)
	}
	return cursor.Close()
}

// issueDoc is the stored document shape. Timestamps are fixed-width RFC 3339
// strings in UTC, so lexicographic sort in AQL matches chronological order.
type issueDoc struct {
	Key         string   `json:"_key,omitempty"`
	ID          string   `json:"id"`
	FactoryID   string   `json:"factoryId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
	CreatedBy   string   `json:"createdBy"`
	AssignedTo  *string  `json:"assignedTo,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func issueDocument(issue *model.Issue) map[string]any {
	doc := map[string]any{
		"_key":        issue.ID,
		"id":          issue.ID,
		"factoryId":   issue.FactoryID,
		"title":       issue.Title,
		"description": issue.Description,
		"images":      issue.Images,
		"status":      string(issue.Status),
		"createdBy":   issue.CreatedBy,
		"createdAt":   arangoTime(issue.CreatedAt),
		"updatedAt":   arangoTime(issue.UpdatedAt),
	}
	if issue.AssignedTo != nil {
		doc["assignedTo"] = *issue.AssignedTo
	}
	return doc
}

func (d issueDoc) toModel() model.Issue {
	createdAt, _ := time.Parse(time.RFC3339Nano, d.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, d.UpdatedAt)

	images := d.Images
	if images == nil {
		images = []string{}
	}

	return model.Issue{
		ID:          d.ID,
		FactoryID:   d.FactoryID,
		Title:       d.Title,
		Description: d.Description,
		Images:      images,
		Status:      model.Status(d.Status),
		CreatedBy:   d.CreatedBy,
		AssignedTo:  d.AssignedTo,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

func readOneIssue(ctx context.Context, cursor arangodb.Cursor) (*model.Issue, error) {
	var doc issueDoc
	if _, err := cursor.ReadDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("read issue document: %w", err)
	}
	issue := doc.toModel()
	return &issue, nil
}
