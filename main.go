package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sekisan/collections"
	"sekisan/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateDisplayOrders(app); err != nil {
			log.Printf("Warning: display order migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Apply active project middleware globally
		se.Router.BindFunc(handlers.ActiveProjectMiddleware(app))

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.POST("/projects", handlers.HandleProjectCreate(app))
		se.Router.PATCH("/projects/{id}", handlers.HandleProjectEdit(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app))
		se.Router.POST("/projects/{id}/switch", handlers.HandleProjectSwitch(app))

		// ── Trading partners ─────────────────────────────────────
		se.Router.GET("/partners", handlers.HandlePartnerList(app))
		se.Router.POST("/partners", handlers.HandlePartnerCreate(app))
		se.Router.PATCH("/partners/{id}", handlers.HandlePartnerEdit(app))
		se.Router.DELETE("/partners/{id}", handlers.HandlePartnerDelete(app))

		// ── Site surveys ─────────────────────────────────────────
		se.Router.GET("/surveys", handlers.HandleSurveyList(app))
		se.Router.POST("/surveys", handlers.HandleSurveyCreate(app))
		se.Router.DELETE("/surveys/{id}", handlers.HandleSurveyDelete(app))
		se.Router.POST("/surveys/{id}/photos", handlers.HandleAddSurveyPhoto(app))
		se.Router.PATCH("/surveys/{id}/photos/{photoId}", handlers.HandlePatchSurveyPhoto(app))
		se.Router.DELETE("/surveys/{id}/photos/{photoId}", handlers.HandleDeleteSurveyPhoto(app))

		// ── Quantity tables ──────────────────────────────────────
		se.Router.GET("/tables", handlers.HandleTableList(app))
		se.Router.POST("/tables", handlers.HandleTableCreate(app))
		se.Router.POST("/tables/{id}/save", handlers.HandleTableSave(app))
		se.Router.DELETE("/tables/{id}", handlers.HandleTableDelete(app))

		// Table export (before the catch-all view route)
		se.Router.GET("/tables/{id}/export/excel", handlers.HandleTableExportExcel(app))

		// Groups
		se.Router.POST("/tables/{id}/groups", handlers.HandleAddGroup(app))
		se.Router.PATCH("/tables/{id}/groups/{groupId}", handlers.HandleRenameGroup(app))
		se.Router.DELETE("/tables/{id}/groups/{groupId}", handlers.HandleDeleteGroup(app))
		se.Router.POST("/tables/{id}/groups/{groupId}/move", handlers.HandleMoveGroup(app))
		se.Router.POST("/tables/{id}/groups/{groupId}/photo", handlers.HandleLinkGroupPhoto(app))

		// Items
		se.Router.POST("/tables/{id}/groups/{groupId}/items", handlers.HandleAddItem(app))
		se.Router.PATCH("/tables/{id}/items/{itemId}", handlers.HandlePatchItem(app))
		se.Router.DELETE("/tables/{id}/items/{itemId}", handlers.HandleDeleteItem(app))
		se.Router.POST("/tables/{id}/items/{itemId}/copy", handlers.HandleCopyItem(app))
		se.Router.POST("/tables/{id}/items/{itemId}/move", handlers.HandleMoveItem(app))

		// Table view (after specific /tables/{id}/* routes)
		se.Router.GET("/tables/{id}", handlers.HandleTableView(app))

		// ── Itemized statements ──────────────────────────────────
		se.Router.GET("/statements", handlers.HandleStatementList(app))
		se.Router.POST("/statements", handlers.HandleStatementCreate(app))
		se.Router.GET("/statements/{id}/export/excel", handlers.HandleStatementExportExcel(app))
		se.Router.GET("/statements/{id}/export/pdf", handlers.HandleStatementExportPDF(app))
		se.Router.GET("/statements/{id}", handlers.HandleStatementView(app))
		se.Router.DELETE("/statements/{id}", handlers.HandleStatementDelete(app))

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
