package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/services"
)

// PartnerListEntry is one row in the trading partner list.
type PartnerListEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kana        string `json:"kana"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	PartnerType string `json:"partner_type"`
}

// HandlePartnerList lists trading partners sorted by kana reading, which is
// how Japanese company directories are browsed.
func HandlePartnerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("trading_partners", "id != ''", "kana,name", 0, 0, nil)
		if err != nil {
			log.Printf("partner_list: could not query partners: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		entries := make([]PartnerListEntry, 0, len(records))
		for _, r := range records {
			entries = append(entries, PartnerListEntry{
				ID:          r.Id,
				Name:        r.GetString("name"),
				Kana:        r.GetString("kana"),
				Address:     r.GetString("address"),
				Phone:       r.GetString("phone"),
				PartnerType: r.GetString("partner_type"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"partners": entries})
	}
}

// HandlePartnerCreate creates a trading partner.
func HandlePartnerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name := e.Request.FormValue("name")
		if err := services.ValidateRequiredName(name); err != nil {
			return ErrorToast(e, http.StatusUnprocessableEntity, "Partner name is required")
		}

		col, err := app.FindCollectionByNameOrId("trading_partners")
		if err != nil {
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(col)
		record.Set("name", name)
		record.Set("kana", e.Request.FormValue("kana"))
		record.Set("address", e.Request.FormValue("address"))
		record.Set("phone", e.Request.FormValue("phone"))
		record.Set("partner_type", e.Request.FormValue("partner_type"))

		if err := app.Save(record); err != nil {
			log.Printf("partner_create: error saving: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Partner created")
		return e.JSON(http.StatusOK, map[string]any{"id": record.Id})
	}
}

// HandlePartnerEdit updates individual fields on a trading partner.
func HandlePartnerEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		partnerID := e.Request.PathValue("id")
		if partnerID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing partner ID")
		}

		record, err := app.FindRecordById("trading_partners", partnerID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Partner not found")
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
			case "name":
				if err := services.ValidateRequiredName(val); err != nil {
					return ErrorToast(e, http.StatusUnprocessableEntity, "Partner name is required")
				}
				record.Set("name", val)
			case "kana", "address", "phone", "partner_type":
				record.Set(key, val)
			}
		}

		if err := app.Save(record); err != nil {
			log.Printf("partner_edit: error saving %s: %v", partnerID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "info", "Partner saved")
		return e.NoContent(http.StatusOK)
	}
}

// HandlePartnerDelete deletes a trading partner.
func HandlePartnerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		partnerID := e.Request.PathValue("id")
		if partnerID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing partner ID")
		}

		record, err := app.FindRecordById("trading_partners", partnerID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Partner not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("partner_delete: error deleting %s: %v", partnerID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Partner deleted")
		return e.NoContent(http.StatusOK)
	}
}
