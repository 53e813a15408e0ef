package handlers

import (
	"encoding/json"
	"errors"
	"items-api/internal/middlewares"
	"items-api/internal/models"
	"items-api/internal/storage"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const maxItemBodyBytes = 1 << 20

func GETItems(ctx *middlewares.AppContext) {
	items, err := ctx.Items.List(ctx)
	if err != nil {
		ctx.Logger.Error("Failed to list items", "error", err)
		ctx.WriteFailure(http.StatusInternalServerError, MessageInternalError, "")
		return
	}

	ctx.WriteSuccess(http.StatusOK, MessageItemsRetrieved, items)
}

func GETItem(ctx *middlewares.AppContext) {
	id, ok := itemIDParam(ctx)
	if !ok {
		return
	}

	item, err := ctx.Items.Get(ctx, id)
	if err != nil {
		writeItemStoreError(ctx, err, id)
		return
	}

	ctx.WriteSuccess(http.StatusOK, MessageItemRetrieved, []models.Item{item})
}

func POSTItem(ctx *middlewares.AppContext) {
	input, ok := decodeItemInput(ctx)
	if !ok {
		return
	}

	item, err := ctx.Items.Create(ctx, input)
	if err != nil {
		ctx.Logger.Error("Failed to create item", "error", err)
		ctx.WriteFailure(http.StatusInternalServerError, MessageInternalError, "")
		return
	}

	ctx.Logger.Info("Item created", "item_id", item.ID, "user_id", principalID(ctx))
	ctx.WriteSuccess(http.StatusCreated, MessageItemCreated, []models.Item{item})
}

func PUTItem(ctx *middlewares.AppContext) {
	id, ok := itemIDParam(ctx)
	if !ok {
		return
	}

	input, ok := decodeItemInput(ctx)
	if !ok {
		return
	}

	item, err := ctx.Items.Update(ctx, id, input)
	if err != nil {
		writeItemStoreError(ctx, err, id)
		return
	}

	ctx.Logger.Info("Item updated", "item_id", item.ID, "user_id", principalID(ctx))
	ctx.WriteSuccess(http.StatusOK, MessageItemUpdated, []models.Item{item})
}

func DELETEItem(ctx *middlewares.AppContext) {
	id, ok := itemIDParam(ctx)
	if !ok {
		return
	}

	if err := ctx.Items.Delete(ctx, id); err != nil {
		writeItemStoreError(ctx, err, id)
		return
	}

	ctx.Logger.Info("Item deleted", "item_id", id, "user_id", principalID(ctx))
	ctx.WriteSuccess(http.StatusOK, MessageItemDeleted, []models.DeletedItem{{ID: id}})
}

// itemIDParam parses {id}. A value that is not a positive integer can never
// name a stored item, so it is reported as not found.
func itemIDParam(ctx *middlewares.AppContext) (int, bool) {
	raw := chi.URLParam(ctx.Request, "id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		ctx.Logger.Debug("Invalid item id", "id", raw)
		ctx.WriteFailure(http.StatusNotFound, MessageItemNotFound, "")
		return 0, false
	}
	return id, true
}

func decodeItemInput(ctx *middlewares.AppContext) (models.ItemInput, bool) {
	var input models.ItemInput

	decoder := json.NewDecoder(http.MaxBytesReader(ctx.Response, ctx.Request.Body, maxItemBodyBytes))
	if err := decoder.Decode(&input); err != nil {
		ctx.Logger.Debug("Failed to decode item payload", "error", err)
		ctx.WriteFailure(http.StatusBadRequest, MessageInvalidItemPayload, err.Error())
		return input, false
	}

	if input.Name == "" || input.Description == "" {
		ctx.WriteFailure(http.StatusBadRequest, MessageInvalidItemPayload, DetailItemFieldsRequired)
		return input, false
	}

	return input, true
}

func writeItemStoreError(ctx *middlewares.AppContext, err error, id int) {
	if errors.Is(err, storage.ErrItemNotFound) {
		ctx.WriteFailure(http.StatusNotFound, MessageItemNotFound, "")
		return
	}

	ctx.Logger.Error("Item store failure", "error", err, "item_id", id)
	ctx.WriteFailure(http.StatusInternalServerError, MessageInternalError, "")
}

func principalID(ctx *middlewares.AppContext) string {
	if principal := ctx.GetPrincipal(); principal != nil {
		return principal.ID
	}
	return ""
}
