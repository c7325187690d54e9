package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// SurveyPhotoEntry is one photo of a survey.
type SurveyPhotoEntry struct {
	ID        string `json:"id"`
	Caption   string `json:"caption"`
	Annotated bool   `json:"annotated"`
}

// SurveyListEntry is one survey with its photos.
type SurveyListEntry struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	SurveyedOn string             `json:"surveyed_on"`
	Photos     []SurveyPhotoEntry `json:"photos"`
}

// HandleSurveyList lists the surveys of the active project with their photos,
// the pool the quantity-table editor picks group photos from.
func HandleSurveyList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		activeProj := GetActiveProject(e.Request)
		if activeProj == nil {
			return ErrorToast(e, http.StatusBadRequest, "Select a project first")
		}

		records, err := app.FindRecordsByFilter(
			"surveys",
			"project = {:projectId}",
			"-created",
			0,
			0,
			map[string]any{"projectId": activeProj.ID},
		)
		if err != nil {
			log.Printf("survey_list: could not query surveys of project %s: %v", activeProj.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		entries := make([]SurveyListEntry, 0, len(records))
		for _, r := range records {
			entry := SurveyListEntry{
				ID:         r.Id,
				Name:       r.GetString("name"),
				SurveyedOn: r.GetString("surveyed_on"),
				Photos:     []SurveyPhotoEntry{},
			}

			photos, err := app.FindRecordsByFilter(
				"survey_photos",
				"survey = {:surveyId}",
				"created",
				0,
				0,
				map[string]any{"surveyId": r.Id},
			)
			if err != nil {
				log.Printf("survey_list: could not query photos of survey %s: %v", r.Id, err)
				photos = nil
			}
			for _, p := range photos {
				entry.Photos = append(entry.Photos, SurveyPhotoEntry{
					ID:        p.Id,
					Caption:   p.GetString("caption"),
					Annotated: p.GetBool("annotated"),
				})
			}
			entries = append(entries, entry)
		}
		return e.JSON(http.StatusOK, map[string]any{"surveys": entries})
	}
}

// HandleSurveyCreate creates a survey in the active project.
func HandleSurveyCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		activeProj := GetActiveProject(e.Request)
		if activeProj == nil {
			return ErrorToast(e, http.StatusBadRequest, "Select a project first")
		}

		name := e.Request.FormValue("name")
		if err := services.ValidateRequiredName(name); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Survey name is required")
		}

		col, err := app.FindCollectionByNameOrId("surveys")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("project", activeProj.ID)
		record.Set("name", name)
		record.Set("surveyed_on", e.Request.FormValue("surveyed_on"))

		if err := app.Save(record); err != nil {
			log.Printf("survey_create: error saving: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Survey created")
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}

// HandleSurveyDelete deletes a survey. Cascade removes its photos; groups
// that linked those photos keep their snapshot flags but lose the relation.
func HandleSurveyDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		surveyID := e.Request.PathValue("id")
		if surveyID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing survey ID")
		}

		record, err := app.FindRecordById("surveys", surveyID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Survey not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("survey_delete: error deleting %s: %v", surveyID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Survey deleted")
		return e.NoContent(http.StatusOK)
	}
}

// HandleAddSurveyPhoto registers a photo under a survey.
func HandleAddSurveyPhoto(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		surveyID := e.Request.PathValue("id")
		if surveyID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing survey ID")
		}

		survey, err := app.FindRecordById("surveys", surveyID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Survey not found")
		}

		col, err := app.FindCollectionByNameOrId("survey_photos")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("survey", survey.Id)
		record.Set("caption", e.Request.FormValue("caption"))
		record.Set("annotated", e.Request.FormValue("annotated") == "true")

		if err := app.Save(record); err != nil {
			log.Printf("add_survey_photo: error saving: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Photo added")
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}

// HandlePatchSurveyPhoto updates a photo's caption or annotated flag. Groups
// that already linked the photo keep their snapshotted flag.
func HandlePatchSurveyPhoto(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		photoID := e.Request.PathValue("photoId")
		if photoID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing photo ID")
		}

		record, err := app.FindRecordById("survey_photos", photoID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Photo not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		for key, values := range e.Request.Form {
			if len(values) == 0 {
				continue
			}
			val := values[0]
			switch key {
			case "caption":
				record.Set("caption", val)
			case "annotated":
				record.Set("annotated", val == "true")
			}
		}

		if err := app.Save(record); err != nil {
			log.Printf("patch_survey_photo: error saving %s: %v", photoID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "info", "Photo saved")
		return e.NoContent(http.StatusOK)
	}
}

// HandleDeleteSurveyPhoto removes a photo from its survey. The photo relation
// on any group that linked it is cleared by PocketBase; the group's
// snapshotted annotated flag stays.
func HandleDeleteSurveyPhoto(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		photoID := e.Request.PathValue("photoId")
		if photoID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing photo ID")
		}

		record, err := app.FindRecordById("survey_photos", photoID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Photo not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("delete_survey_photo: error deleting %s: %v", photoID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Photo deleted")
		return e.NoContent(http.StatusOK)
	}
}
