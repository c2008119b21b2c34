package docstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"docvault/internal/domain"
	models "docvault/internal/domain/models/docstore"
	"docvault/internal/domain/repositories"
	docstoreRepo "docvault/internal/domain/repositories/docstore"
	docstoreSvc "docvault/internal/domain/services/docstore"
	"docvault/internal/notify"
)

// fakeItemRepo is an in-memory ItemRepository. Its List applies the same
// composite (item_type, sortField, id) ordering and value-based seek the
// real store does, so paging behavior can be exercised without a database.
type fakeItemRepo struct {
	items map[string]*models.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*models.Item)}
}

func (f *fakeItemRepo) put(item models.Item) {
	copied := item
	f.items[item.ID] = &copied
}

func (f *fakeItemRepo) Create(ctx context.Context, item *models.Item) error {
	if _, ok := f.items[item.ID]; ok {
		return fmt.Errorf("%w: item %s already exists", domain.ErrConflict, item.ID)
	}
	if item.ParentID != nil {
		if _, ok := f.items[*item.ParentID]; !ok {
			return fmt.Errorf("%w: parent folder %s does not exist", domain.ErrValidation, *item.ParentID)
		}
	}
	f.put(*item)
	return nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id string) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, id)
	}
	copied := *item
	return &copied, nil
}

func (f *fakeItemRepo) UpdateStatus(ctx context.Context, id string, status models.Status, pages []models.ExtractedPage, updatedAt time.Time) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok || item.ItemType != models.ItemTypeFile {
		return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	item.Status = &status
	if pages != nil {
		item.ExtractedText = pages
	}
	item.UpdatedAt = updatedAt
	copied := *item
	return &copied, nil
}

func (f *fakeItemRepo) List(ctx context.Context, userID string, opts *models.ListOptions) (*models.ListResult, error) {
	var matched []models.Item
	for _, item := range f.items {
		if item.UserID != userID {
			continue
		}
		if !sameParent(item.ParentID, opts.ParentID) {
			continue
		}
		if opts.NameContains != "" &&
			!strings.Contains(strings.ToLower(item.Name), strings.ToLower(opts.NameContains)) {
			continue
		}
		if opts.Status != nil && (item.Status == nil || *item.Status != *opts.Status) {
			continue
		}
		matched = append(matched, *item)
	}

	sort.Slice(matched, func(i, j int) bool {
		return compareItems(&matched[i], &matched[j], opts.SortField, opts.SortDirection) < 0
	})

	if opts.Cursor != nil {
		anchor, err := cursorAnchor(opts.Cursor, opts.SortField)
		if err != nil {
			return nil, err
		}
		kept := matched[:0]
		for i := range matched {
			if compareItems(anchor, &matched[i], opts.SortField, opts.SortDirection) < 0 {
				kept = append(kept, matched[i])
			}
		}
		matched = kept
	}

	if len(matched) > opts.Limit+1 {
		matched = matched[:opts.Limit+1]
	}
	return models.NewListResult(matched, opts), nil
}

func (f *fakeItemRepo) ListChildRefs(ctx context.Context, parentIDs []string) ([]docstoreRepo.ChildRef, error) {
	parents := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}

	var refs []docstoreRepo.ChildRef
	for _, item := range f.items {
		if item.ParentID != nil && parents[*item.ParentID] {
			refs = append(refs, docstoreRepo.ChildRef{ID: item.ID, ItemType: item.ItemType})
		}
	}
	return refs, nil
}

func (f *fakeItemRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := f.items[id]; ok {
			delete(f.items, id)
			n++
		}
	}
	return n, nil
}

func sameParent(itemParent, wantParent *string) bool {
	if wantParent == nil {
		return itemParent == nil
	}
	return itemParent != nil && *itemParent == *wantParent
}

// compareItems orders by the composite key: item_type always ascending,
// then the sort column and id following the requested direction.
func compareItems(a, b *models.Item, field models.SortField, dir models.SortDirection) int {
	if a.ItemType != b.ItemType {
		if a.ItemType < b.ItemType {
			return -1
		}
		return 1
	}

	var c int
	switch field {
	case models.SortFieldCreatedAt:
		c = a.CreatedAt.Compare(b.CreatedAt)
	case models.SortFieldUpdatedAt:
		c = a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		c = strings.Compare(a.SortValue(field), b.SortValue(field))
	}
	if c == 0 {
		c = strings.Compare(a.ID, b.ID)
	}
	if dir == models.SortDesc {
		c = -c
	}
	return c
}

// cursorAnchor rebuilds a pseudo-item at the cursor position so the seek
// can reuse compareItems.
func cursorAnchor(c *models.Cursor, field models.SortField) (*models.Item, error) {
	anchor := &models.Item{ItemType: c.ItemType, ID: c.ID}
	switch field {
	case models.SortFieldCreatedAt, models.SortFieldUpdatedAt:
		ts, err := time.Parse(time.RFC3339Nano, c.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: cursor value %q is not a valid timestamp", domain.ErrValidation, c.Value)
		}
		anchor.CreatedAt = ts
		anchor.UpdatedAt = ts
	case models.SortFieldName:
		anchor.Name = c.Value
	case models.SortFieldStatus:
		if c.Value != "" {
			s := models.Status(c.Value)
			anchor.Status = &s
		}
	}
	return anchor, nil
}

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeNotifier struct {
	userIDs []string
	updates []notify.DocumentUpdate
}

func (n *fakeNotifier) DocumentUpdated(ctx context.Context, userID string, update notify.DocumentUpdate) {
	n.userIDs = append(n.userIDs, userID)
	n.updates = append(n.updates, update)
}

func newTestService(t *testing.T) (docstoreSvc.ItemService, *fakeItemRepo, *fakeNotifier) {
	t.Helper()
	repo := newFakeItemRepo()
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewItemService(repo, fakeTxManager{}, notifier, logger), repo, notifier
}

func day(d int) time.Time {
	// Days counted from 2025-12-01 so tests can straddle the year boundary.
	return time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, d-1)
}

func fileItem(id, userID, name string, created time.Time, status models.Status, parentID *string) models.Item {
	return models.Item{
		ID:        id,
		UserID:    userID,
		ParentID:  parentID,
		ItemType:  models.ItemTypeFile,
		Name:      name,
		Path:      name,
		MimeType:  "application/pdf",
		Size:      1024,
		Status:    &status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func folderItem(id, userID, name string, created time.Time, parentID *string) models.Item {
	return models.Item{
		ID:        id,
		UserID:    userID,
		ParentID:  parentID,
		ItemType:  models.ItemTypeFolder,
		Name:      name,
		Path:      name,
		MimeType:  "folder",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func itemNames(items []models.Item) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListItems_FilesBeforeFoldersAcrossPages(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	// Three files and two folders at the root; created_at descending with
	// page size 3 splits the listing exactly at the type boundary.
	repo.put(fileItem("file-another", "user-1", "Another File", day(33), models.StatusCompleted, nil))
	repo.put(fileItem("file-doc1", "user-1", "Document 1 File", day(32), models.StatusCompleted, nil))
	repo.put(fileItem("file-legacy", "user-1", "Legacy File C", day(31), models.StatusUploaded, nil))
	repo.put(folderItem("folder-empty", "user-1", "Empty Folder Z", day(38), nil))
	repo.put(folderItem("folder-root", "user-1", "Root Folder A", day(34), nil))

	page1, err := svc.ListItems(ctx, "user-1", &models.ListOptions{Limit: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPage1 := []string{"Another File", "Document 1 File", "Legacy File C"}
	if got := itemNames(page1.Items); !equalStrings(got, wantPage1) {
		t.Errorf("page 1 = %v, want %v", got, wantPage1)
	}
	if !page1.HasMore {
		t.Error("page 1 HasMore = false, want true")
	}
	if page1.NextCursor == nil {
		t.Fatal("page 1 NextCursor is nil")
	}
	if page1.NextCursor.ItemType != models.ItemTypeFile || page1.NextCursor.ID != "file-legacy" {
		t.Errorf("page 1 cursor = %+v, want file/file-legacy", page1.NextCursor)
	}

	page2, err := svc.ListItems(ctx, "user-1", &models.ListOptions{Limit: 3, Cursor: page1.NextCursor})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPage2 := []string{"Empty Folder Z", "Root Folder A"}
	if got := itemNames(page2.Items); !equalStrings(got, wantPage2) {
		t.Errorf("page 2 = %v, want %v", got, wantPage2)
	}
	if page2.HasMore {
		t.Error("page 2 HasMore = true, want false")
	}
	if page2.NextCursor != nil {
		t.Errorf("page 2 NextCursor = %+v, want nil", page2.NextCursor)
	}
}

func TestListItems_PaginationWalkMatchesSinglePage(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	// 13 items with deliberate created_at ties so the id tiebreaker matters.
	for i := 0; i < 8; i++ {
		repo.put(fileItem(fmt.Sprintf("file-%02d", i), "user-1",
			fmt.Sprintf("report-%02d.pdf", i), day(1+i/2), models.StatusCompleted, nil))
	}
	for i := 0; i < 5; i++ {
		repo.put(folderItem(fmt.Sprintf("folder-%02d", i), "user-1",
			fmt.Sprintf("archive-%02d", i), day(3+i/2), nil))
	}

	full, err := svc.ListItems(ctx, "user-1", &models.ListOptions{
		SortField:     models.SortFieldCreatedAt,
		SortDirection: models.SortAsc,
		Limit:         100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(full.Items) != 13 {
		t.Fatalf("full listing has %d items, want 13", len(full.Items))
	}

	var walked []string
	var cursor *models.Cursor
	pages := 0
	for {
		page, err := svc.ListItems(ctx, "user-1", &models.ListOptions{
			SortField:     models.SortFieldCreatedAt,
			SortDirection: models.SortAsc,
			Limit:         4,
			Cursor:        cursor,
		})
		if err != nil {
			t.Fatalf("page %d: unexpected error: %v", pages+1, err)
		}
		pages++
		for _, item := range page.Items {
			walked = append(walked, item.ID)
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if pages != 4 {
		t.Errorf("walk took %d pages, want 4", pages)
	}

	var wantIDs []string
	for _, item := range full.Items {
		wantIDs = append(wantIDs, item.ID)
	}
	if !equalStrings(walked, wantIDs) {
		t.Errorf("walked ids = %v, want %v", walked, wantIDs)
	}
}

func TestListItems_CrossUserIsolation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.put(fileItem("file-mine", "user-1", "mine.pdf", day(1), models.StatusCompleted, nil))
	repo.put(fileItem("file-theirs", "user-2", "theirs.pdf", day(2), models.StatusCompleted, nil))

	result, err := svc.ListItems(ctx, "user-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Items) != 1 || result.Items[0].ID != "file-mine" {
		t.Errorf("items = %v, want only file-mine", itemNames(result.Items))
	}
}

func TestListItems_StatusFilterExcludesFolders(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.put(fileItem("file-done", "user-1", "done.pdf", day(1), models.StatusCompleted, nil))
	repo.put(fileItem("file-pending", "user-1", "pending.pdf", day(2), models.StatusExtracting, nil))
	repo.put(folderItem("folder-1", "user-1", "Stuff", day(3), nil))

	status := models.StatusCompleted
	result, err := svc.ListItems(ctx, "user-1", &models.ListOptions{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Items) != 1 || result.Items[0].ID != "file-done" {
		t.Errorf("items = %v, want only done.pdf", itemNames(result.Items))
	}
}

func TestListItems_NameFilterIsCaseInsensitive(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.put(fileItem("file-1", "user-1", "Quarterly Report.pdf", day(1), models.StatusCompleted, nil))
	repo.put(fileItem("file-2", "user-1", "notes.txt", day(2), models.StatusCompleted, nil))

	result, err := svc.ListItems(ctx, "user-1", &models.ListOptions{NameContains: "report"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Items) != 1 || result.Items[0].ID != "file-1" {
		t.Errorf("items = %v, want only Quarterly Report.pdf", itemNames(result.Items))
	}
}

func TestListItems_EmptyFolder(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.put(folderItem("folder-1", "user-1", "Empty", day(1), nil))

	parentID := "folder-1"
	result, err := svc.ListItems(ctx, "user-1", &models.ListOptions{ParentID: &parentID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Items == nil {
		t.Error("Items is nil, want empty slice")
	}
	if len(result.Items) != 0 || result.HasMore || result.NextCursor != nil {
		t.Errorf("result = %+v, want empty page with no cursor", result)
	}
}

func TestListItems_ValidationErrors(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	repo.put(fileItem("file-1", "user-1", "a.pdf", day(1), models.StatusCompleted, nil))

	tests := []struct {
		name   string
		userID string
		opts   *models.ListOptions
	}{
		{name: "missing user id", userID: "", opts: nil},
		{name: "limit over maximum", userID: "user-1", opts: &models.ListOptions{Limit: 101}},
		{name: "unknown sort field", userID: "user-1", opts: &models.ListOptions{SortField: "size"}},
		{
			name:   "cursor missing id",
			userID: "user-1",
			opts:   &models.ListOptions{Cursor: &models.Cursor{ItemType: models.ItemTypeFile, Value: "x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListItems(ctx, tt.userID, tt.opts)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want domain.ErrValidation", err)
			}
		})
	}
}

func TestGetItem(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.put(fileItem("file-1", "user-1", "a.pdf", day(1), models.StatusCompleted, nil))

	item, err := svc.GetItem(ctx, "user-1", "file-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item == nil || item.ID != "file-1" {
		t.Fatalf("item = %+v, want file-1", item)
	}

	// Missing ids and other users' items both come back nil without error.
	for _, tc := range []struct{ userID, id string }{
		{"user-1", "no-such-id"},
		{"user-2", "file-1"},
	} {
		item, err := svc.GetItem(ctx, tc.userID, tc.id)
		if err != nil {
			t.Errorf("GetItem(%s, %s): unexpected error: %v", tc.userID, tc.id, err)
		}
		if item != nil {
			t.Errorf("GetItem(%s, %s) = %+v, want nil", tc.userID, tc.id, item)
		}
	}
}

func TestCreateDocument(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.CreateDocument(ctx, &docstoreSvc.CreateDocumentRequest{
		UserID:   "user-1",
		Name:     "report.pdf",
		MimeType: "application/pdf",
		Size:     2048,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.ID == "" {
		t.Error("expected a generated id")
	}
	if item.ItemType != models.ItemTypeFile {
		t.Errorf("ItemType = %s, want file", item.ItemType)
	}
	if item.Status == nil || *item.Status != models.StatusUploaded {
		t.Errorf("Status = %v, want default UPLOADED", item.Status)
	}
	if item.Path != "report.pdf" {
		t.Errorf("Path = %q, want %q", item.Path, "report.pdf")
	}
	if item.CreatedAt.IsZero() || !item.CreatedAt.Equal(item.UpdatedAt) {
		t.Errorf("timestamps = %v / %v, want equal and set", item.CreatedAt, item.UpdatedAt)
	}
}

func TestCreateDocument_InsideFolder(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	folder := folderItem("folder-1", "user-1", "Invoices", day(1), nil)
	folder.Path = "Invoices"
	repo.put(folder)

	parentID := "folder-1"
	item, err := svc.CreateDocument(ctx, &docstoreSvc.CreateDocumentRequest{
		UserID:   "user-1",
		ParentID: &parentID,
		Name:     "invoice-01.pdf",
		MimeType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.Path != "Invoices/invoice-01.pdf" {
		t.Errorf("Path = %q, want %q", item.Path, "Invoices/invoice-01.pdf")
	}
}

func TestCreateDocument_Invalid(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.put(folderItem("folder-1", "user-2", "Theirs", day(1), nil))
	repo.put(fileItem("file-1", "user-1", "plain.pdf", day(1), models.StatusCompleted, nil))

	badStatus := models.Status("DONE")
	folderID := "folder-1"
	fileID := "file-1"
	missingID := "no-such-folder"

	tests := []struct {
		name string
		req  *docstoreSvc.CreateDocumentRequest
	}{
		{
			name: "empty name",
			req:  &docstoreSvc.CreateDocumentRequest{UserID: "user-1", MimeType: "application/pdf"},
		},
		{
			name: "name with slash",
			req:  &docstoreSvc.CreateDocumentRequest{UserID: "user-1", Name: "a/b.pdf", MimeType: "application/pdf"},
		},
		{
			name: "missing mime type",
			req:  &docstoreSvc.CreateDocumentRequest{UserID: "user-1", Name: "a.pdf"},
		},
		{
			name: "negative size",
			req:  &docstoreSvc.CreateDocumentRequest{UserID: "user-1", Name: "a.pdf", MimeType: "application/pdf", Size: -1},
		},
		{
			name: "unknown status",
			req:  &docstoreSvc.CreateDocumentRequest{UserID: "user-1", Name: "a.pdf", MimeType: "application/pdf", Status: &badStatus},
		},
		{
			name: "parent does not exist",
			req:  &docstoreSvc.CreateDocumentRequest{UserID: "user-1", ParentID: &missingID, Name: "a.pdf", MimeType: "application/pdf"},
		},
		{
			name: "parent belongs to another user",
			req:  &docstoreSvc.CreateDocumentRequest{UserID: "user-1", ParentID: &folderID, Name: "a.pdf", MimeType: "application/pdf"},
		},
		{
			name: "parent is a file",
			req:  &docstoreSvc.CreateDocumentRequest{UserID: "user-1", ParentID: &fileID, Name: "a.pdf", MimeType: "application/pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDocument(ctx, tt.req)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error = %v, want domain.ErrValidation", err)
			}
		})
	}
}

func TestCreateFolder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	folder, err := svc.CreateFolder(ctx, &docstoreSvc.CreateFolderRequest{
		UserID: "user-1",
		Name:   "Projects",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if folder.ItemType != models.ItemTypeFolder {
		t.Errorf("ItemType = %s, want folder", folder.ItemType)
	}
	if folder.Status != nil {
		t.Errorf("Status = %v, want nil", folder.Status)
	}
	if folder.Size != 0 {
		t.Errorf("Size = %d, want 0", folder.Size)
	}
	if folder.MimeType != "folder" {
		t.Errorf("MimeType = %q, want %q", folder.MimeType, "folder")
	}

	nested, err := svc.CreateFolder(ctx, &docstoreSvc.CreateFolderRequest{
		UserID:   "user-1",
		ParentID: &folder.ID,
		Name:     "2026",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nested.Path != "Projects/2026" {
		t.Errorf("Path = %q, want %q", nested.Path, "Projects/2026")
	}
}

func TestUpdateDocument(t *testing.T) {
	svc, repo, notifier := newTestService(t)
	ctx := context.Background()

	repo.put(fileItem("file-1", "user-1", "scan.pdf", day(1), models.StatusExtracting, nil))

	pages := []models.ExtractedPage{{Page: 1, Text: "hello"}}
	item, err := svc.UpdateDocument(ctx, "file-1", &docstoreSvc.UpdateDocumentRequest{
		Status:        models.StatusCompleted,
		ExtractedText: pages,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if item.Status == nil || *item.Status != models.StatusCompleted {
		t.Errorf("Status = %v, want COMPLETED", item.Status)
	}
	if len(item.ExtractedText) != 1 || item.ExtractedText[0].Text != "hello" {
		t.Errorf("ExtractedText = %v, want the submitted pages", item.ExtractedText)
	}

	if len(notifier.updates) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifier.updates))
	}
	if notifier.userIDs[0] != "user-1" {
		t.Errorf("notified user = %s, want user-1", notifier.userIDs[0])
	}
	update := notifier.updates[0]
	if update.ID != "file-1" || update.Status != models.StatusCompleted {
		t.Errorf("notification = %+v, want file-1/COMPLETED", update)
	}
}

func TestUpdateDocument_NilPagesPreserveText(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	existing := fileItem("file-1", "user-1", "scan.pdf", day(1), models.StatusCompleted, nil)
	existing.ExtractedText = []models.ExtractedPage{{Page: 1, Text: "kept"}}
	repo.put(existing)

	item, err := svc.UpdateDocument(ctx, "file-1", &docstoreSvc.UpdateDocumentRequest{
		Status: models.StatusFailed,
		Error:  "extractor crashed",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(item.ExtractedText) != 1 || item.ExtractedText[0].Text != "kept" {
		t.Errorf("ExtractedText = %v, want previous pages preserved", item.ExtractedText)
	}
}

func TestUpdateDocument_Errors(t *testing.T) {
	svc, repo, notifier := newTestService(t)
	ctx := context.Background()

	repo.put(folderItem("folder-1", "user-1", "Stuff", day(1), nil))

	_, err := svc.UpdateDocument(ctx, "file-1", &docstoreSvc.UpdateDocumentRequest{Status: "DONE"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("invalid status: error = %v, want domain.ErrValidation", err)
	}

	_, err = svc.UpdateDocument(ctx, "no-such-id", &docstoreSvc.UpdateDocumentRequest{Status: models.StatusCompleted})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing document: error = %v, want domain.ErrNotFound", err)
	}

	// Folders have no status to update.
	_, err = svc.UpdateDocument(ctx, "folder-1", &docstoreSvc.UpdateDocumentRequest{Status: models.StatusCompleted})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("folder target: error = %v, want domain.ErrNotFound", err)
	}

	if len(notifier.updates) != 0 {
		t.Errorf("got %d notifications, want none on failed updates", len(notifier.updates))
	}
}

func TestDeleteItem_File(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.put(fileItem("file-1", "user-1", "a.pdf", day(1), models.StatusCompleted, nil))
	repo.put(fileItem("file-2", "user-1", "b.pdf", day(2), models.StatusCompleted, nil))

	if err := svc.DeleteItem(ctx, "file-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := repo.items["file-1"]; ok {
		t.Error("file-1 still present after delete")
	}
	if _, ok := repo.items["file-2"]; !ok {
		t.Error("file-2 removed by unrelated delete")
	}
}

func TestDeleteItem_FolderSubtree(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	// user-1:
	//   A/            <- deleted
	//     f1
	//     B/
	//       C/
	//         f2, f3
	//   D/            <- survives
	//     f4
	// user-2: f5      <- survives
	a := "A"
	b := "B"
	c := "C"
	d := "D"
	repo.put(folderItem("A", "user-1", "Archive", day(1), nil))
	repo.put(fileItem("f1", "user-1", "one.pdf", day(2), models.StatusCompleted, &a))
	repo.put(folderItem("B", "user-1", "Batch", day(2), &a))
	repo.put(folderItem("C", "user-1", "Current", day(3), &b))
	repo.put(fileItem("f2", "user-1", "two.pdf", day(4), models.StatusCompleted, &c))
	repo.put(fileItem("f3", "user-1", "three.pdf", day(5), models.StatusFailed, &c))
	repo.put(folderItem("D", "user-1", "Docs", day(1), nil))
	repo.put(fileItem("f4", "user-1", "four.pdf", day(2), models.StatusCompleted, &d))
	repo.put(fileItem("f5", "user-2", "five.pdf", day(2), models.StatusCompleted, nil))

	if err := svc.DeleteItem(ctx, "A"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"A", "f1", "B", "C", "f2", "f3"} {
		if _, ok := repo.items[id]; ok {
			t.Errorf("%s still present after subtree delete", id)
		}
	}
	for _, id := range []string{"D", "f4", "f5"} {
		if _, ok := repo.items[id]; !ok {
			t.Errorf("%s removed but is outside the deleted subtree", id)
		}
	}
}

func TestDeleteItem_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	repo.put(fileItem("file-1", "user-1", "a.pdf", day(1), models.StatusCompleted, nil))

	if err := svc.DeleteItem(ctx, "never-existed"); err != nil {
		t.Errorf("delete of unknown id: unexpected error: %v", err)
	}

	if err := svc.DeleteItem(ctx, "file-1"); err != nil {
		t.Fatalf("first delete: unexpected error: %v", err)
	}
	if err := svc.DeleteItem(ctx, "file-1"); err != nil {
		t.Errorf("second delete: unexpected error: %v", err)
	}

	if len(repo.items) != 0 {
		t.Errorf("%d items remain, want 0", len(repo.items))
	}
}
