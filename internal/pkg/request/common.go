package request

// ByIDRequest binds the `:id` path parameter shared by most routes.
// All entity IDs in this service are UUIDs; binding rejects anything else
// before the handler runs.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}
