package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/MKhiriev/refsync/internal/adapter"
	"github.com/MKhiriev/refsync/internal/store"
	"github.com/MKhiriev/refsync/models"
)

// memStore is an in-memory store.EntityRepository and
// store.SyncStateRepository that counts writes.
type memStore struct {
	mu      sync.Mutex
	records map[models.EntityType]map[string]models.StoredRecord
	states  map[models.EntityType]models.SyncState

	upserts int
	deletes int

	failUpsert error
	failSave   error
}

func newMemStore() *memStore {
	return &memStore{
		records: make(map[models.EntityType]map[string]models.StoredRecord),
		states:  make(map[models.EntityType]models.SyncState),
	}
}

func (m *memStore) bucket(t models.EntityType) map[string]models.StoredRecord {
	b, ok := m.records[t]
	if !ok {
		b = make(map[string]models.StoredRecord)
		m.records[t] = b
	}
	return b
}

func (m *memStore) Upsert(_ context.Context, rec models.StoredRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpsert != nil {
		return m.failUpsert
	}
	m.upserts++
	m.bucket(rec.EntityType)[rec.ID] = rec
	return nil
}

func (m *memStore) Delete(_ context.Context, t models.EntityType, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(t)
	if _, ok := b[id]; !ok {
		return false, nil
	}
	m.deletes++
	delete(b, id)
	return true, nil
}

func (m *memStore) DeleteMany(ctx context.Context, t models.EntityType, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		ok, _ := m.Delete(ctx, t, id)
		if ok {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetHash(_ context.Context, t models.EntityType, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.bucket(t)[id]
	return rec.ChangeHash, ok, nil
}

func (m *memStore) Get(_ context.Context, t models.EntityType, id string) (models.StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.bucket(t)[id]
	if !ok {
		return models.StoredRecord{}, store.ErrRecordNotFound
	}
	return rec, nil
}

func (m *memStore) List(_ context.Context, t models.EntityType) ([]models.StoredRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.StoredRecord, 0)
	for _, rec := range m.bucket(t) {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b models.StoredRecord) int { return compareStrings(a.ID, b.ID) })
	return out, nil
}

func (m *memStore) ListIDs(_ context.Context, t models.EntityType) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]struct{})
	for id := range m.bucket(t) {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (m *memStore) Count(_ context.Context, t models.EntityType) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bucket(t)), nil
}

func (m *memStore) GetState(_ context.Context, t models.EntityType) (models.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[t]
	if !ok {
		return models.SyncState{EntityType: t}, nil
	}
	return st, nil
}

func (m *memStore) SaveState(_ context.Context, st models.SyncState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	m.states[st.EntityType] = st
	return nil
}

func (m *memStore) ListStates(_ context.Context) ([]models.SyncState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SyncState, 0, len(m.states))
	for _, st := range m.states {
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b models.SyncState) int { return compareStrings(string(a.EntityType), string(b.EntityType)) })
	return out, nil
}

func (m *memStore) ResetState(_ context.Context, t models.EntityType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, t)
	return nil
}

func (m *memStore) localIDs(t models.EntityType) []string {
	ids, _ := m.ListIDs(context.Background(), t)
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (m *memStore) watermark(t models.EntityType) models.Revision {
	st, _ := m.GetState(context.Background(), t)
	return st.LastRevision
}

func (m *memStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upserts
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// fakeServer is the authoritative copy of one entity type. Every mutation
// gets the next numeric revision; the change feed keeps only the latest
// event per id.
type fakeServer struct {
	idField  string
	rev      int
	live     map[string]models.Fields
	feed     map[string]models.Item
	pageSize int
}

func newFakeServer(idField string, pageSize int) *fakeServer {
	return &fakeServer{
		idField:  idField,
		live:     make(map[string]models.Fields),
		feed:     make(map[string]models.Item),
		pageSize: pageSize,
	}
}

func (s *fakeServer) put(id string, fields models.Fields) {
	s.rev++
	f := models.Fields{s.idField: id}
	for k, v := range fields {
		f[k] = v
	}
	s.live[id] = f
	s.feed[id] = models.Record{Revision: models.Revision(strconv.Itoa(s.rev)), Fields: f}
}

// touch re-announces id with a new revision and an unchanged payload.
func (s *fakeServer) touch(id string) {
	s.rev++
	s.feed[id] = models.Record{Revision: models.Revision(strconv.Itoa(s.rev)), Fields: s.live[id]}
}

func (s *fakeServer) remove(id string) {
	s.rev++
	delete(s.live, id)
	s.feed[id] = models.Tombstone{ID: id, Revision: models.Revision(strconv.Itoa(s.rev))}
}

// removeSilently deletes id without announcing it in the feed.
func (s *fakeServer) removeSilently(id string) {
	delete(s.live, id)
	delete(s.feed, id)
}

func (s *fakeServer) page(since models.Revision) []models.Item {
	items := make([]models.Item, 0)
	for _, it := range s.feed {
		if it.ItemRevision().After(since) {
			items = append(items, it)
		}
	}
	slices.SortFunc(items, func(a, b models.Item) int { return a.ItemRevision().Compare(b.ItemRevision()) })
	if len(items) > s.pageSize {
		items = items[:s.pageSize]
	}
	return items
}

func (s *fakeServer) ids() []string {
	out := make([]string, 0, len(s.live))
	for id := range s.live {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// fakeTransport serves fakeServers keyed by endpoint.
type fakeTransport struct {
	mu sync.Mutex

	servers   map[string]*fakeServer
	idServers map[string]*fakeServer
	manifest  models.Manifest

	streamCalls int
	// sinces holds the revision every StreamUpdates call asked for.
	sinces []models.Revision
	// failCall makes the n-th StreamUpdates call (1-based) break after
	// failAfter items.
	failCall  int
	failAfter int

	omitServerCount bool
	// replay ignores since and always serves the first page.
	replay bool

	unauthorized int
	registers    int
	registerErr  error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		servers:   make(map[string]*fakeServer),
		idServers: make(map[string]*fakeServer),
	}
}

func (f *fakeTransport) serve(def interface{ endpoints() (string, string) }, srv *fakeServer) {
	endpoint, idEndpoint := def.endpoints()
	f.servers[endpoint] = srv
	f.idServers[idEndpoint] = srv
}

func (f *fakeTransport) StreamUpdates(ctx context.Context, endpoint string, since models.Revision, fn func(models.Item) error) (models.Page, error) {
	f.mu.Lock()
	f.streamCalls++
	call := f.streamCalls
	f.sinces = append(f.sinces, since)
	if f.unauthorized > 0 {
		f.unauthorized--
		f.mu.Unlock()
		return models.Page{}, fmt.Errorf("%w: token expired", adapter.ErrUnauthorized)
	}
	srv, ok := f.servers[endpoint]
	f.mu.Unlock()
	if !ok {
		return models.Page{}, fmt.Errorf("%w: http 404: %s", adapter.ErrProtocol, endpoint)
	}

	if f.replay {
		since = ""
	}
	items := srv.page(since)
	for i, it := range items {
		if call == f.failCall && i == f.failAfter {
			return models.Page{Items: i}, fmt.Errorf("%w: connection reset", adapter.ErrNetworkFailure)
		}
		if err := fn(it); err != nil {
			return models.Page{Items: i}, fmt.Errorf("stream updates %s: %w", endpoint, err)
		}
	}

	page := models.Page{Items: len(items), ServerCount: len(srv.live), HasServerCount: true}
	if f.omitServerCount {
		page.ServerCount, page.HasServerCount = 0, false
	}
	return page, nil
}

func (f *fakeTransport) requested() []models.Revision {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sinces)
}

func (f *fakeTransport) resetRequested() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinces = nil
}

func (f *fakeTransport) StreamIDs(_ context.Context, endpoint string, fn func(string) error) error {
	srv, ok := f.idServers[endpoint]
	if !ok {
		return fmt.Errorf("%w: http 404: %s", adapter.ErrProtocol, endpoint)
	}
	for _, id := range srv.ids() {
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeTransport) GetManifest(context.Context) (models.Manifest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.manifest, nil
}

func (f *fakeTransport) Register(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registers++
	return f.registerErr
}

func (d EntityDefinition[T]) endpoints() (string, string) {
	return d.Endpoint, d.IDEndpoint
}
