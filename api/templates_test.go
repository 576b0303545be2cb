package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mockdb "github.com/Drolfothesgnir/gohaa/db/mock"
	db "github.com/Drolfothesgnir/gohaa/db/sqlc"
	"github.com/Drolfothesgnir/gohaa/util"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type templateTestCase struct {
	name          string
	method        string
	url           string
	body          gin.H
	buildStubs    func(store *mockdb.MockStore)
	checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
}

func runTemplateTestCases(t *testing.T, testCases []templateTestCase) {
	t.Helper()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mockdb.NewMockStore(ctrl)
			tc.buildStubs(store)

			service := newTestService(t, store)
			recorder := httptest.NewRecorder()

			var body bytes.Buffer
			if tc.body != nil {
				require.NoError(t, json.NewEncoder(&body).Encode(tc.body))
			}

			request, err := http.NewRequest(tc.method, tc.url, &body)
			require.NoError(t, err)

			service.router.ServeHTTP(recorder, request)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestListTemplatesAPI(t *testing.T) {
	summaries := []db.TemplateSummary{
		{ID: 1, Path: "pages/a.pha", CreatedAt: time.Unix(10, 0).UTC(), UpdatedAt: time.Unix(20, 0).UTC()},
		{ID: 2, Path: "pages/b.pha", CreatedAt: time.Unix(30, 0).UTC(), UpdatedAt: time.Unix(40, 0).UTC()},
	}

	runTemplateTestCases(t, []templateTestCase{
		{
			name:   "OK",
			method: http.MethodGet,
			url:    "/templates?prefix=pages/&page_id=2&page_size=5",
			buildStubs: func(store *mockdb.MockStore) {
				arg := db.ListTemplatesParams{
					Prefix: util.OptionalText("pages/"),
					Limit:  5,
					Offset: 5,
				}
				store.EXPECT().
					ListTemplates(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(summaries, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got []db.TemplateSummary
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				if diff := cmp.Diff(summaries, got); diff != "" {
					t.Errorf("templates mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:   "Defaults",
			method: http.MethodGet,
			url:    "/templates",
			buildStubs: func(store *mockdb.MockStore) {
				arg := db.ListTemplatesParams{Limit: defaultPageSize}
				store.EXPECT().
					ListTemplates(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return([]db.TemplateSummary{}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				require.JSONEq(t, "[]", recorder.Body.String())
			},
		},
		{
			name:   "InvalidPageSize",
			method: http.MethodGet,
			url:    "/templates?page_size=1000",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().ListTemplates(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)

				resp, err := extractErrorFromBuffer(recorder.Body)
				require.NoError(t, err)
				require.Equal(t, []ErrorField{{FieldName: "page_size", ErrorMessage: "value is too long"}}, resp.Fields)
			},
		},
		{
			name:   "InternalError",
			method: http.MethodGet,
			url:    "/templates",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					ListTemplates(gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, errors.New("connection refused"))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)

				resp, err := extractErrorFromBuffer(recorder.Body)
				require.NoError(t, err)
				require.Equal(t, ErrInternal.Error(), resp.Error)
			},
		},
	})
}

func TestGetTemplateAPI(t *testing.T) {
	tmpl := storedTemplate("pages/a.pha", "%p")
	tmpl.CreatedAt = tmpl.CreatedAt.UTC()
	tmpl.UpdatedAt = tmpl.UpdatedAt.UTC()

	runTemplateTestCases(t, []templateTestCase{
		{
			name:   "OK",
			method: http.MethodGet,
			url:    "/templates/pages/a.pha",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					GetTemplate(gomock.Any(), gomock.Eq("pages/a.pha")).
					Times(1).
					Return(tmpl, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got db.Template
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&got))
				require.Equal(t, tmpl, got)
			},
		},
		{
			name:   "NotFound",
			method: http.MethodGet,
			url:    "/templates/pages/missing.pha",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					GetTemplate(gomock.Any(), gomock.Eq("pages/missing.pha")).
					Times(1).
					Return(db.Template{}, notFoundTemplate("pages/missing.pha"))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:   "InvalidPath",
			method: http.MethodGet,
			url:    "/templates/pages//a.pha",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().GetTemplate(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)

				resp, err := extractErrorFromBuffer(recorder.Body)
				require.NoError(t, err)
				require.Equal(t, ErrInvalidPath.Error(), resp.Error)
				require.Len(t, resp.Fields, 1)
				require.Equal(t, "path", resp.Fields[0].FieldName)
			},
		},
	})
}

func TestSaveTemplateAPI(t *testing.T) {
	source := "%p Hello"
	tmpl := storedTemplate("pages/a.pha", source)

	runTemplateTestCases(t, []templateTestCase{
		{
			name:   "Created",
			method: http.MethodPut,
			url:    "/templates/pages/a.pha",
			body:   gin.H{"source": source},
			buildStubs: func(store *mockdb.MockStore) {
				arg := db.SaveTemplateTxParams{Path: "pages/a.pha", Source: source}
				store.EXPECT().
					SaveTemplateTx(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(db.SaveTemplateTxResult{Template: tmpl, Created: true}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusCreated, recorder.Code)

				var resp saveTemplateResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				require.Equal(t, tmpl.Path, resp.Template.Path)
				require.Equal(t, tmpl.Source, resp.Template.Source)
				require.Empty(t, resp.Warnings)
			},
		},
		{
			name:   "Updated",
			method: http.MethodPut,
			url:    "/templates/pages/a.pha",
			body:   gin.H{"source": source},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					SaveTemplateTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.SaveTemplateTxResult{Template: tmpl}, nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
			},
		},
		{
			name:   "SyntaxError",
			method: http.MethodPut,
			url:    "/templates/pages/a.pha",
			body:   gin.H{"source": "%a# text"},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().SaveTemplateTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

				resp, err := extractErrorFromBuffer(recorder.Body)
				require.NoError(t, err)
				require.NotNil(t, resp.Syntax)
				require.Equal(t, 1, resp.Syntax.Line)
			},
		},
		{
			name:   "MissingSource",
			method: http.MethodPut,
			url:    "/templates/pages/a.pha",
			body:   gin.H{},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().SaveTemplateTx(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:   "Conflict",
			method: http.MethodPut,
			url:    "/templates/pages/a.pha",
			body:   gin.H{"source": source},
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					SaveTemplateTx(gomock.Any(), gomock.Any()).
					Times(1).
					Return(db.SaveTemplateTxResult{}, &db.OpError{
						Op:     "save-template",
						Kind:   db.KindConflict,
						Entity: "template",
						Path:   "pages/a.pha",
						Err:    db.ErrTemplateExists,
					})
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
	})
}

// Saving a template drops the compiled module, the next render reads the new source.
func TestSaveTemplateInvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockdb.NewMockStore(ctrl)

	gomock.InOrder(
		store.EXPECT().
			GetTemplate(gomock.Any(), gomock.Eq("a.pha")).
			Return(storedTemplate("a.pha", "old"), nil),
		store.EXPECT().
			SaveTemplateTx(gomock.Any(), gomock.Any()).
			Return(db.SaveTemplateTxResult{Template: storedTemplate("a.pha", "new")}, nil),
		store.EXPECT().
			GetTemplate(gomock.Any(), gomock.Eq("a.pha")).
			Return(storedTemplate("a.pha", "new"), nil),
	)

	service := newTestService(t, store)

	render := func() string {
		recorder := httptest.NewRecorder()
		data, err := json.Marshal(gin.H{"path": "a.pha"})
		require.NoError(t, err)
		request, err := http.NewRequest(http.MethodPost, RenderURL, bytes.NewReader(data))
		require.NoError(t, err)
		service.router.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code)
		return recorder.Body.String()
	}

	require.Equal(t, "old", render())

	recorder := httptest.NewRecorder()
	data, err := json.Marshal(gin.H{"source": "new"})
	require.NoError(t, err)
	request, err := http.NewRequest(http.MethodPut, "/templates/a.pha", bytes.NewReader(data))
	require.NoError(t, err)
	service.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	require.Equal(t, "new", render())
}

func TestDeleteTemplateAPI(t *testing.T) {
	runTemplateTestCases(t, []templateTestCase{
		{
			name:   "OK",
			method: http.MethodDelete,
			url:    "/templates/pages/a.pha",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					DeleteTemplate(gomock.Any(), gomock.Eq("pages/a.pha")).
					Times(1).
					Return(nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNoContent, recorder.Code)
			},
		},
		{
			name:   "NotFound",
			method: http.MethodDelete,
			url:    "/templates/pages/a.pha",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().
					DeleteTemplate(gomock.Any(), gomock.Eq("pages/a.pha")).
					Times(1).
					Return(notFoundTemplate("pages/a.pha"))
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:   "EmptyPath",
			method: http.MethodDelete,
			url:    "/templates/",
			buildStubs: func(store *mockdb.MockStore) {
				store.EXPECT().DeleteTemplate(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	})
}

func TestCORSMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := newTestService(t, mockdb.NewMockStore(ctrl))

	recorder := httptest.NewRecorder()
	request, err := http.NewRequest(http.MethodOptions, RenderURL, nil)
	require.NoError(t, err)
	request.Header.Set("Origin", "http://example.com")

	service.router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, recorder.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
}
