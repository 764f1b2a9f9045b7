package resource

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// DeltaItemID is the reserved item id that requests incremental sync.
const DeltaItemID = "delta"

// ItemIDPlaceholder is substituted with each item id in delta results.
const ItemIDPlaceholder = "{itemid}"

// Delta document fields.
const (
	fieldODataContext   = "@odata.context"
	fieldODataID        = "@odata.id"
	fieldODataDeltaLink = "@odata.deltaLink"
	fieldValue          = "value"
)

// getDelta marks req as a delta request and hands it to the sync machinery
// with the resolved folder.
func (c *Controller) getDelta(ctx context.Context, req *Request, sink types.ResponseSink, folder types.Folder) error {
	req.DeltaID = ItemIDPlaceholder
	return c.delta(ctx, req, sink, folder)
}

// delta reports the items of folder changed or deleted after the request's
// delta token. Deleted items are rendered as deleted entities.
func (c *Controller) delta(ctx context.Context, req *Request, sink types.ResponseSink, folder types.Folder) error {
	cursor, err := ParseDeltaToken(req.DeltaToken)
	if err != nil {
		return err
	}

	changes, err := c.store.Changes(ctx, folder, cursor)
	if err != nil {
		return err
	}

	value := make([]any, 0, len(changes.Items)+len(changes.Deleted))
	for _, item := range changes.Items {
		doc := c.kind.Render(Live(item))
		if req.DeltaID != "" {
			doc[fieldODataID] = strings.ReplaceAll(req.DeltaID, ItemIDPlaceholder, item.ID())
		}
		value = append(value, doc)
	}
	for _, id := range changes.Deleted {
		value = append(value, c.kind.Render(Deleted(id)))
	}

	c.logger.Debug("delta", "folder", folder.Name(), "since", cursor, "cursor", changes.Cursor,
		"changed", len(changes.Items), "deleted", len(changes.Deleted))

	return sink.Respond(types.Document{
		fieldODataContext:   req.Path,
		fieldValue:          value,
		fieldODataDeltaLink: DeltaLink(req.Path, changes.Cursor),
	})
}

// ParseDeltaToken decodes a delta token. An empty token starts a full sync.
func ParseDeltaToken(token string) (uint64, error) {
	if token == "" {
		return 0, nil
	}
	cursor, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		return 0, types.BadRequest("Invalid delta token '%s'", token)
	}
	return cursor, nil
}

// DeltaLink returns the link a client follows to resume sync after cursor.
func DeltaLink(path string, cursor uint64) string {
	return fmt.Sprintf("%s?$deltatoken=%d", path, cursor)
}
