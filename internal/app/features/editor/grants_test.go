package editor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"testing"

	"github.com/dalemusser/adminhub/internal/app/features/editor"
	"github.com/dalemusser/adminhub/internal/app/system/authz"
	"github.com/dalemusser/adminhub/internal/app/system/memstore"
	"github.com/dalemusser/adminhub/internal/app/system/menu"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/dalemusser/adminhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// roleService serves one role. While sealed, any call fails the test.
type roleService struct {
	t      *testing.T
	sealed bool
	stored models.Role
	saved  []models.Role
	reject string
}

func (s *roleService) check(op string) {
	if s.sealed {
		s.t.Errorf("service %s called during row edits", op)
	}
}

func (s *roleService) Find(context.Context, paging.Query) paging.Result[paging.Page[models.Role]] {
	s.check("Find")
	return paging.OK(paging.EmptyPage[models.Role]())
}

func (s *roleService) Count(context.Context, paging.CountQuery) paging.Result[int64] {
	s.check("Count")
	return paging.OK(int64(0))
}

func (s *roleService) Get(_ context.Context, id int64) paging.Result[models.Role] {
	s.check("Get")
	if *s.stored.ID == id {
		r := s.stored
		r.Permissions = slices.Clone(s.stored.Permissions)
		return paging.OK(r)
	}
	return paging.NotFound[models.Role]()
}

func (s *roleService) Save(_ context.Context, r models.Role) paging.Result[models.Role] {
	s.check("Save")
	if s.reject != "" {
		return paging.Fail[models.Role](s.reject)
	}
	s.saved = append(s.saved, r)
	return paging.OK(r)
}

func (s *roleService) Delete(context.Context, int64) paging.Result[bool] {
	s.check("Delete")
	return paging.OK(false)
}

type grantsFixture struct {
	t       *testing.T
	svc     *roleService
	router  chi.Router
	session *uisession.Session
	user    testutil.TestUser
}

func newGrantsFixture(t *testing.T) *grantsFixture {
	t.Helper()
	reg := uisession.NewRegistry(zap.NewNop())
	t.Cleanup(reg.CloseAll)

	svc := &roleService{t: t, stored: models.Role{
		ID: int64p(4), Name: "editor", Active: true,
		Permissions: []string{"reference.read", "i18n.write"},
	}}
	r := chi.NewRouter()
	editor.RegisterGrants(editor.NewGrantsHandler(svc, nil, zap.NewNop()))(r)

	return &grantsFixture{
		t:       t,
		svc:     svc,
		router:  r,
		session: reg.Create(menu.User{ID: "1"}),
		user:    testutil.UserWith(authz.Perm("security", authz.LevelWrite)),
	}
}

func (f *grantsFixture) do(method, target, body string) *testutil.ResponseRecorder {
	f.t.Helper()
	req := uisession.WithSession(testutil.NewJSONRequest(method, target, body, f.user), f.session)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type grantsBody struct {
	EditID string                 `json:"editId"`
	Items  []memstore.Row[string] `json:"items"`
	Total  int                    `json:"total"`
}

func (f *grantsFixture) decode(rec *testutil.ResponseRecorder) grantsBody {
	f.t.Helper()
	var body grantsBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		f.t.Fatalf("decode: %v", err)
	}
	return body
}

func items(rows []memstore.Row[string]) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Item
	}
	return out
}

func TestGrants_OpenSeedsSortedRows(t *testing.T) {
	f := newGrantsFixture(t)
	rec := f.do("POST", "/4/permissions", "")
	rec.AssertStatus(t, http.StatusCreated)

	body := f.decode(rec)
	if body.EditID == "" || body.Total != 2 {
		t.Fatalf("open = %+v", body)
	}
	if got := items(body.Items); !slices.Equal(got, []string{"i18n.write", "reference.read"}) {
		t.Errorf("rows = %v", got)
	}

	f.do("POST", "/9/permissions", "").AssertStatus(t, http.StatusNotFound)
	f.do("POST", "/x/permissions", "").AssertStatus(t, http.StatusBadRequest)
}

func TestGrants_RowEditsStayLocal(t *testing.T) {
	f := newGrantsFixture(t)
	body := f.decode(f.do("POST", "/4/permissions", ""))
	base := "/permission-edits/" + body.EditID + "/rows"
	f.svc.sealed = true
	defer func() { f.svc.sealed = false }()

	rec := f.do("POST", base, `{"permission":" Security.Read "}`)
	rec.AssertStatus(t, http.StatusCreated)
	var added memstore.Row[string]
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if added.Item != "security.read" || added.TempID != 3 {
		t.Errorf("added = %+v", added)
	}

	f.do("POST", base, `{"permission":"security.read"}`).AssertStatus(t, http.StatusUnprocessableEntity)
	f.do("POST", base, `{"permission":"security.admin"}`).AssertStatus(t, http.StatusUnprocessableEntity)
	f.do("POST", base+"/1", `{"permission":"i18n.write"}`).AssertStatus(t, http.StatusUnprocessableEntity)
	f.do("POST", base+"/1", `{"permission":"monitoring.read"}`).AssertStatus(t, http.StatusOK)
	f.do("POST", base+"/99", `{"permission":"monitoring.write"}`).AssertStatus(t, http.StatusNotFound)

	f.do("POST", base+"/2/delete", "").AssertStatus(t, http.StatusNoContent)
	f.do("POST", base+"/2/delete", "").AssertStatus(t, http.StatusNotFound)

	got := f.decode(f.do("GET", base+"?sort=permission,desc", ""))
	if want := []string{"security.read", "monitoring.read"}; got.Total != 2 || !slices.Equal(items(got.Items), want) {
		t.Errorf("rows = %+v, want %v", got, want)
	}
	got = f.decode(f.do("GET", base+"?q=MONI", ""))
	if got.Total != 1 || got.Items[0].TempID != 1 {
		t.Errorf("filtered rows = %+v", got)
	}

	if len(f.svc.saved) != 0 || len(f.svc.stored.Permissions) != 2 {
		t.Errorf("row edits reached the service: saved=%d", len(f.svc.saved))
	}
}

func TestGrants_CommitSavesRole(t *testing.T) {
	f := newGrantsFixture(t)
	body := f.decode(f.do("POST", "/4/permissions", ""))
	edit := "/permission-edits/" + body.EditID

	f.do("POST", edit+"/rows/1/delete", "").AssertStatus(t, http.StatusNoContent)
	f.do("POST", edit+"/rows", `{"permission":"security.write"}`).AssertStatus(t, http.StatusCreated)

	f.svc.reject = "Role is locked."
	rec := f.do("POST", edit+"/commit", "")
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	rec.AssertContains(t, "Role is locked.")
	// The edit survives a failed commit.
	f.do("GET", edit+"/rows", "").AssertStatus(t, http.StatusOK)

	f.svc.reject = ""
	f.do("POST", edit+"/commit", "").AssertStatus(t, http.StatusOK)
	if len(f.svc.saved) != 1 {
		t.Fatalf("saves = %d, want 1", len(f.svc.saved))
	}
	saved := f.svc.saved[0]
	if saved.Name != "editor" || !slices.Equal(saved.Permissions, []string{"i18n.write", "security.write"}) {
		t.Errorf("saved = %+v", saved)
	}
	f.do("GET", edit+"/rows", "").AssertStatus(t, http.StatusNotFound)
}

func TestGrants_Cancel(t *testing.T) {
	f := newGrantsFixture(t)
	body := f.decode(f.do("POST", "/4/permissions", ""))
	edit := "/permission-edits/" + body.EditID

	f.do("POST", edit+"/cancel", "").AssertStatus(t, http.StatusNoContent)
	f.do("POST", edit+"/cancel", "").AssertStatus(t, http.StatusNotFound)
	if len(f.svc.saved) != 0 {
		t.Error("cancel saved the role")
	}
}

func TestGrants_NeedsSecurityWrite(t *testing.T) {
	f := newGrantsFixture(t)
	f.user = testutil.UserWith(authz.Perm("security", authz.LevelRead))
	f.do("POST", "/4/permissions", "").AssertStatus(t, http.StatusForbidden)
}
