package handlers

import (
	"errors"
	"items-api/internal/middlewares"
	"items-api/internal/models"
	"items-api/internal/storage"
	"items-api/internal/testutil"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newItemsContext(t *testing.T, method, url string) *testutil.TestContext {
	t.Helper()
	tc := testutil.NewTestContextWithURL(t, method, url)
	tc.WithItemStore(storage.NewMemItemStore(storage.DefaultItems))
	return tc
}

func TestGETItems(t *testing.T) {
	tc := newItemsContext(t, http.MethodGet, "/items")
	defer tc.Finish()

	tc.ServeMiddleware(middlewares.OptionalAuth, GETItems)

	tc.AssertStatus(t, http.StatusOK)
	tc.AssertJSONBool(t, "result", true)
	tc.AssertJSONString(t, "message", MessageItemsRetrieved)
	assert.Len(t, tc.GetJSONArrayField(t, "data"), len(storage.DefaultItems))
}

func TestGETItem(t *testing.T) {
	tests := []struct {
		name            string
		id              string
		expectedStatus  int
		expectedMessage string
	}{
		{name: "found", id: "1", expectedStatus: http.StatusOK, expectedMessage: MessageItemRetrieved},
		{name: "not found", id: "999", expectedStatus: http.StatusNotFound, expectedMessage: MessageItemNotFound},
		{name: "not a number", id: "abc", expectedStatus: http.StatusNotFound, expectedMessage: MessageItemNotFound},
		{name: "zero", id: "0", expectedStatus: http.StatusNotFound, expectedMessage: MessageItemNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newItemsContext(t, http.MethodGet, "/items/"+tt.id)
			defer tc.Finish()
			tc.WithURLParam("id", tt.id)

			tc.CallHandler(GETItem)

			tc.AssertStatus(t, tt.expectedStatus)
			tc.AssertJSONString(t, "message", tt.expectedMessage)
			if tt.expectedStatus == http.StatusOK {
				data := tc.GetJSONArrayField(t, "data")
				require.Len(t, data, 1)
				assert.Equal(t, float64(1), data[0].(map[string]interface{})["id"])
			}
		})
	}
}

func TestPOSTItem(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		tc := newItemsContext(t, http.MethodPost, "/items")
		defer tc.Finish()
		tc.WithJSONBody(t, models.ItemInput{Name: "NewTestItem", Description: "New test item description"})
		tc.WithBearer(tc.IssueToken(t, testutil.TestUser()))

		tc.ServeMiddleware(middlewares.RequireAuth, POSTItem)

		tc.AssertStatus(t, http.StatusCreated)
		tc.AssertJSONString(t, "message", MessageItemCreated)
		data := tc.GetJSONArrayField(t, "data")
		require.Len(t, data, 1)
		item := data[0].(map[string]interface{})
		assert.Equal(t, "NewTestItem", item["name"])
		assert.Equal(t, float64(len(storage.DefaultItems)+1), item["id"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		tc := testutil.NewTestContextWithURL(t, http.MethodPost, "/items")
		defer tc.Finish()
		tc.WithJSONBody(t, models.ItemInput{Name: "x", Description: "y"})

		tc.ServeMiddleware(middlewares.RequireAuth, POSTItem)

		tc.AssertStatus(t, http.StatusUnauthorized)
		tc.AssertJSONBool(t, "result", false)
	})

	t.Run("missing description", func(t *testing.T) {
		tc := testutil.NewTestContextWithURL(t, http.MethodPost, "/items")
		defer tc.Finish()
		tc.WithRawBody([]byte(`{"name":"SecondTestItem"}`))
		tc.WithPrincipal(testutil.TestUser())

		tc.CallHandler(POSTItem)

		tc.AssertStatus(t, http.StatusBadRequest)
		tc.AssertJSONString(t, "message", MessageInvalidItemPayload)
		tc.AssertJSONString(t, "error", DetailItemFieldsRequired)
	})

	t.Run("malformed json", func(t *testing.T) {
		tc := testutil.NewTestContextWithURL(t, http.MethodPost, "/items")
		defer tc.Finish()
		tc.WithRawBody([]byte(`{"name":`))

		tc.CallHandler(POSTItem)

		tc.AssertStatus(t, http.StatusBadRequest)
		tc.AssertJSONBool(t, "result", false)
	})

	t.Run("store failure", func(t *testing.T) {
		tc := testutil.NewTestContextWithURL(t, http.MethodPost, "/items")
		defer tc.Finish()
		tc.WithJSONBody(t, models.ItemInput{Name: "x", Description: "y"})

		tc.MockItems.EXPECT().Create(gomock.Any(), models.ItemInput{Name: "x", Description: "y"}).
			Return(models.Item{}, errors.New("disk full"))

		tc.CallHandler(POSTItem)

		tc.AssertStatus(t, http.StatusInternalServerError)
		tc.AssertJSONString(t, "message", MessageInternalError)
	})
}

func TestPUTItem(t *testing.T) {
	tests := []struct {
		name            string
		id              string
		body            string
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:            "updated",
			id:              "1",
			body:            `{"name":"UpdatedItem","description":"Updated item description"}`,
			expectedStatus:  http.StatusOK,
			expectedMessage: MessageItemUpdated,
		},
		{
			name:            "not found",
			id:              "999",
			body:            `{"name":"UpdatedItem","description":"Updated item description"}`,
			expectedStatus:  http.StatusNotFound,
			expectedMessage: MessageItemNotFound,
		},
		{
			name:            "invalid payload",
			id:              "1",
			body:            `{"invalid":"data"}`,
			expectedStatus:  http.StatusBadRequest,
			expectedMessage: MessageInvalidItemPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newItemsContext(t, http.MethodPut, "/items/"+tt.id)
			defer tc.Finish()
			tc.WithRawBody([]byte(tt.body))
			tc.WithURLParam("id", tt.id)
			tc.WithPrincipal(testutil.TestUser())

			tc.CallHandler(PUTItem)

			tc.AssertStatus(t, tt.expectedStatus)
			tc.AssertJSONString(t, "message", tt.expectedMessage)
			if tt.expectedStatus == http.StatusOK {
				data := tc.GetJSONArrayField(t, "data")
				require.Len(t, data, 1)
				assert.Equal(t, "UpdatedItem", data[0].(map[string]interface{})["name"])
			}
		})
	}
}

func TestDELETEItem(t *testing.T) {
	adminChain := func(next http.Handler) http.Handler {
		return middlewares.RequireAuth(middlewares.RequireAdmin(next))
	}

	t.Run("admin deletes", func(t *testing.T) {
		tc := newItemsContext(t, http.MethodDelete, "/items/1")
		defer tc.Finish()
		tc.WithURLParam("id", "1")
		tc.WithBearer(tc.IssueToken(t, testutil.TestAdmin()))

		tc.ServeMiddleware(adminChain, DELETEItem)

		tc.AssertStatus(t, http.StatusOK)
		tc.AssertJSONString(t, "message", MessageItemDeleted)
		data := tc.GetJSONArrayField(t, "data")
		require.Len(t, data, 1)
		assert.Equal(t, map[string]interface{}{"id": float64(1)}, data[0])

		_, err := tc.AppContext.Items.Get(tc.AppContext, 1)
		assert.ErrorIs(t, err, storage.ErrItemNotFound)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		tc := newItemsContext(t, http.MethodDelete, "/items/1")
		defer tc.Finish()
		tc.WithURLParam("id", "1")
		tc.WithBearer(tc.IssueToken(t, testutil.TestUser()))

		tc.ServeMiddleware(adminChain, DELETEItem)

		tc.AssertStatus(t, http.StatusForbidden)
		tc.AssertJSONString(t, "message", middlewares.MessageAdminRequired)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		tc := newItemsContext(t, http.MethodDelete, "/items/1")
		defer tc.Finish()
		tc.WithURLParam("id", "1")

		tc.ServeMiddleware(adminChain, DELETEItem)

		tc.AssertStatus(t, http.StatusUnauthorized)
		tc.AssertJSONString(t, "message", middlewares.MessageUnauthorized)
	})

	t.Run("not found", func(t *testing.T) {
		tc := newItemsContext(t, http.MethodDelete, "/items/9999")
		defer tc.Finish()
		tc.WithURLParam("id", "9999")
		tc.WithPrincipal(testutil.TestAdmin())

		tc.CallHandler(DELETEItem)

		tc.AssertStatus(t, http.StatusNotFound)
		tc.AssertJSONString(t, "message", MessageItemNotFound)
	})
}
