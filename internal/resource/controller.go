package resource

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// Request carries the addressing and payload of one resource request.
type Request struct {
	FolderID   string         // Folder id or well-known name; empty selects the kind's default.
	ItemID     string         // Item id, DeltaItemID, or empty.
	Segment    string         // Trailing path segment after the item id.
	DeltaToken string         // Cursor from a previous delta link.
	Path       string         // Request path, echoed in delta links.
	Body       types.Document // Input document of create and update.

	// DeltaID is the id template delta entries are reported under. Set by
	// the delta adapter; ItemIDPlaceholder is replaced with each item id.
	DeltaID string
}

// Controller serves requests for one resource kind. It holds no per-request
// state and is safe for concurrent use.
type Controller struct {
	kind   *Kind
	store  types.Store
	logger hclog.Logger
}

// NewController returns a controller for kind backed by store.
func NewController(kind *Kind, store types.Store, logger hclog.Logger) *Controller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Controller{
		kind:   kind,
		store:  store,
		logger: logger.Named("resource").With("kind", kind.Name),
	}
}

// Kind returns the controller's resource kind.
func (c *Controller) Kind() *Kind {
	return c.kind
}

// Handle dispatches req by HTTP method and reports the outcome to sink.
// Failures are sent with sink.RespondError; the returned error is non-nil
// only when the sink itself fails.
func (c *Controller) Handle(ctx context.Context, method string, req *Request, sink types.ResponseSink) error {
	var err error
	switch method {
	case http.MethodGet:
		err = c.Get(ctx, req, sink)
	case http.MethodDelete:
		err = c.Delete(ctx, req, sink)
	case http.MethodPatch:
		err = c.Update(ctx, req, sink)
	case http.MethodPost:
		err = c.Create(ctx, req, sink)
	default:
		err = types.BadRequest("Unsupported %s method '%s'", c.kind.Name, method)
	}
	if err == nil {
		return nil
	}

	code := types.ErrorCodeOf(err)
	if code == types.ErrorCodeInternal {
		c.logger.Error("request failed", "method", method, "item_id", req.ItemID, "error", err)
	} else {
		c.logger.Debug("request rejected", "method", method, "item_id", req.ItemID, "code", code, "error", err)
	}
	return sink.RespondError(code, types.ErrorMessageOf(err))
}

// Get returns one item, or enters delta mode for the reserved DeltaItemID.
// A request without an item id is rejected; listing is not supported.
func (c *Controller) Get(ctx context.Context, req *Request, sink types.ResponseSink) error {
	if req.Segment != "" {
		return types.BadRequest("Unsupported %s segment '%s'", c.kind.Name, req.Segment)
	}

	folder, err := c.folder(ctx, req.FolderID)
	if err != nil {
		return err
	}

	switch req.ItemID {
	case "":
		return types.BadRequest("Missing %s itemid", c.kind.Name)
	case DeltaItemID:
		return c.getDelta(ctx, req, sink, folder)
	}

	item, err := folder.Item(ctx, req.ItemID)
	if err != nil {
		return err
	}
	return sink.Respond(c.kind.Render(Live(item)))
}

// Delete removes the item addressed by id alone; the folder is ignored.
func (c *Controller) Delete(ctx context.Context, req *Request, sink types.ResponseSink) error {
	if req.ItemID == "" {
		return types.BadRequest("Missing %s itemid", c.kind.Name)
	}
	if req.Segment != "" {
		return types.BadRequest("Unsupported %s segment '%s'", c.kind.Name, req.Segment)
	}

	item, err := c.store.Item(ctx, req.ItemID)
	if err != nil {
		return err
	}
	if err := c.store.DeleteItem(ctx, item); err != nil {
		return err
	}

	c.logger.Debug("deleted item", "item_id", req.ItemID)
	return sink.RespondNoContent()
}

// Update applies the request body to an existing item and returns the
// result. Nothing is committed when the body fails validation.
func (c *Controller) Update(ctx context.Context, req *Request, sink types.ResponseSink) error {
	if req.ItemID == "" {
		return types.BadRequest("Missing %s itemid", c.kind.Name)
	}
	if req.Segment != "" {
		return types.BadRequest("Unsupported %s segment '%s'", c.kind.Name, req.Segment)
	}
	if req.ItemID == DeltaItemID {
		return types.BadRequest("Unsupported %s segment '%s'", c.kind.Name, req.ItemID)
	}
	if req.Body == nil {
		return types.BadRequest("Missing %s body", c.kind.Name)
	}

	folder, err := c.folder(ctx, req.FolderID)
	if err != nil {
		return err
	}
	item, err := folder.Item(ctx, req.ItemID)
	if err != nil {
		return err
	}
	if err := c.apply(ctx, item, req.Body); err != nil {
		return err
	}
	return sink.Respond(c.kind.Render(Live(item)))
}

// Create makes a new item in the request's folder from the request body.
func (c *Controller) Create(ctx context.Context, req *Request, sink types.ResponseSink) error {
	if req.Segment != "" {
		return types.BadRequest("Unsupported %s segment '%s'", c.kind.Name, req.Segment)
	}
	if req.ItemID != "" {
		return types.BadRequest("Unsupported %s segment '%s'", c.kind.Name, req.ItemID)
	}
	if req.Body == nil {
		return types.BadRequest("Missing %s body", c.kind.Name)
	}

	folder, err := c.folder(ctx, req.FolderID)
	if err != nil {
		return err
	}
	item := folder.NewItem()
	if err := c.apply(ctx, item, req.Body); err != nil {
		return err
	}

	c.logger.Debug("created item", "item_id", item.ID())
	return sink.RespondCreated(c.kind.Render(Live(item)))
}

// apply writes body onto item and commits it.
func (c *Controller) apply(ctx context.Context, item types.Item, body types.Document) error {
	if err := c.kind.Table.Apply(item, body); err != nil {
		return err
	}
	return c.store.SaveItem(ctx, item)
}

// folder resolves the request folder, falling back to the kind's default.
func (c *Controller) folder(ctx context.Context, folderID string) (types.Folder, error) {
	if folderID == "" {
		folderID = c.kind.DefaultFolder
	}
	return c.store.Folder(ctx, folderID)
}
