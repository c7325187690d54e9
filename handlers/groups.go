package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// HandleAddGroup appends a new empty group to a quantity table.
func HandleAddGroup(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		tableID := e.Request.PathValue("id")
		if tableID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing table ID")
		}

		table, err := app.FindRecordById("quantity_tables", tableID)
		if err != nil || table.GetBool("deleted") {
			return ErrorToast(e, http.StatusNotFound, "Table not found")
		}

		siblings, err := sortedChildIDs(app, "quantity_groups", "table", table.Id)
		if err != nil {
			log.Printf("add_group: could not query groups of table %s: %v", table.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		col, err := app.FindCollectionByNameOrId("quantity_groups")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("table", table.Id)
		record.Set("sort_order", len(siblings))

		if err := app.Save(record); err != nil {
			log.Printf("add_group: error saving: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Group added")
		return e.JSON(http.StatusOK, map[string]any{
			"id":         record.Id,
			"sort_order": len(siblings),
		})
	}
}

// HandleDeleteGroup deletes a group (cascade removes its items) and renumbers
// the remaining groups of the table.
func HandleDeleteGroup(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		groupID := e.Request.PathValue("groupId")
		if groupID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing group ID")
		}

		record, err := app.FindRecordById("quantity_groups", groupID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Group not found")
		}
		tableID := record.GetString("table")

		if err := app.Delete(record); err != nil {
			log.Printf("delete_group: error deleting %s: %v", groupID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		siblings, err := sortedChildIDs(app, "quantity_groups", "table", tableID)
		if err == nil {
			if err := renumberRecords(app, "quantity_groups", siblings); err != nil {
				log.Printf("delete_group: renumber failed for table %s: %v", tableID, err)
			}
		}

		SetToast(e, "success", "Group deleted")
		return e.NoContent(http.StatusOK)
	}
}

// HandleMoveGroup moves a group to a new display position within its table.
func HandleMoveGroup(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		groupID := e.Request.PathValue("groupId")
		if groupID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing group ID")
		}

		record, err := app.FindRecordById("quantity_groups", groupID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Group not found")
		}
		tableID := record.GetString("table")
		position := parseIndex(e.Request.FormValue("position"))

		ids, err := sortedChildIDs(app, "quantity_groups", "table", tableID)
		if err != nil {
			log.Printf("move_group: could not query groups of table %s: %v", tableID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		from := indexOf(ids, groupID)
		if from < 0 {
			return ErrorToast(e, http.StatusNotFound, "Group not found in its table")
		}

		moved := services.MoveID(ids, from, position)
		if err := renumberRecords(app, "quantity_groups", moved); err != nil {
			log.Printf("move_group: renumber failed for table %s: %v", tableID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Group moved")
		return e.NoContent(http.StatusOK)
	}
}

// HandleRenameGroup updates a group's section title.
func HandleRenameGroup(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		groupID := e.Request.PathValue("groupId")
		if groupID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing group ID")
		}

		record, err := app.FindRecordById("quantity_groups", groupID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Group not found")
		}

		title := e.Request.FormValue("title")
		if services.HalfWidthLen(title) > services.MaxNameLen {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Group title is too long")
		}

		record.Set("title", title)
		if err := app.Save(record); err != nil {
			log.Printf("rename_group: error saving %s: %v", groupID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "info", "Group saved")
		return e.NoContent(http.StatusOK)
	}
}

// HandleLinkGroupPhoto attaches a survey photo to a group, or detaches it
// when the submitted photo ID is empty. The annotated flag is snapshotted at
// link time so later edits to the photo do not silently change the group.
func HandleLinkGroupPhoto(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		groupID := e.Request.PathValue("groupId")
		if groupID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing group ID")
		}

		record, err := app.FindRecordById("quantity_groups", groupID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Group not found")
		}

		photoID := e.Request.FormValue("photo")
		if photoID == "" {
			record.Set("photo", "")
			record.Set("photo_annotated", false)
		} else {
			photo, err := app.FindRecordById("survey_photos", photoID)
			if err != nil {
				return ErrorToast(e, http.StatusNotFound, "Photo not found")
			}
			record.Set("photo", photo.Id)
			record.Set("photo_annotated", photo.GetBool("annotated"))
		}

		if err := app.Save(record); err != nil {
			log.Printf("link_group_photo: error saving %s: %v", groupID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Photo link updated")
		return e.NoContent(http.StatusOK)
	}
}
