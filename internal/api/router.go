package api

import (
	"net/http"

	"freight-tracking-service/internal/api/handlers"
	"freight-tracking-service/internal/api/live"
	"freight-tracking-service/internal/ports"
	"freight-tracking-service/internal/services"
)

// Deps bundles the ports the HTTP layer depends on. Cache, Publisher, and
// Hub may be nil; the affected features degrade gracefully.
type Deps struct {
	Locations   ports.LocationRepository
	Carriers    ports.CarrierRepository
	Contacts    ports.ContactRepository
	Drivers     ports.DriverRepository
	Vehicles    ports.VehicleRepository
	Assets      ports.AssetRepository
	Shipments   ports.ShipmentRepository
	Tracking    ports.TrackingRepository
	Notes       ports.NoteRepository
	Attachments ports.AttachmentRepository
	Checker     ports.EntityChecker
	Files       ports.FileStore
	Cache       ports.StatusCache
	Publisher   ports.StatusPublisher
	Hub         *live.Hub
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	locations := &handlers.LocationHandler{Repo: d.Locations}
	carriers := &handlers.CarrierHandler{Repo: d.Carriers}
	contacts := &handlers.ContactHandler{Contacts: d.Contacts, Carriers: d.Carriers}
	drivers := &handlers.DriverHandler{Drivers: d.Drivers, Carriers: d.Carriers}
	vehicles := &handlers.VehicleHandler{Vehicles: d.Vehicles, Carriers: d.Carriers}
	assets := &handlers.AssetHandler{Repo: d.Assets}
	shipments := &handlers.ShipmentHandler{
		Stores: services.ShipmentStores{
			Shipments: d.Shipments,
			Locations: d.Locations,
			Carriers:  d.Carriers,
			Drivers:   d.Drivers,
			Vehicles:  d.Vehicles,
		},
		Assets: d.Assets,
		Cache:  d.Cache,
		Pub:    d.Publisher,
	}
	tracking := &handlers.TrackingHandler{Repo: d.Tracking}
	if d.Hub != nil {
		tracking.Stream = d.Hub
	}
	notes := &handlers.NoteHandler{Notes: d.Notes, Checker: d.Checker}
	attachments := &handlers.AttachmentHandler{
		Attachments: d.Attachments,
		Checker:     d.Checker,
		Files:       d.Files,
	}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /locations", locations.Create)
	mux.HandleFunc("GET /locations", locations.List)
	mux.HandleFunc("GET /locations/{id}", locations.Get)
	mux.HandleFunc("PUT /locations/{id}", locations.Update)
	mux.HandleFunc("DELETE /locations/{id}", locations.Delete)

	mux.HandleFunc("POST /carriers", carriers.Create)
	mux.HandleFunc("GET /carriers", carriers.List)
	mux.HandleFunc("GET /carriers/{id}", carriers.Get)
	mux.HandleFunc("PUT /carriers/{id}", carriers.Update)
	mux.HandleFunc("DELETE /carriers/{id}", carriers.Delete)

	mux.HandleFunc("POST /contacts", contacts.Create)
	mux.HandleFunc("GET /contacts", contacts.List)
	mux.HandleFunc("GET /contacts/{id}", contacts.Get)
	mux.HandleFunc("PUT /contacts/{id}", contacts.Update)
	mux.HandleFunc("DELETE /contacts/{id}", contacts.Delete)

	mux.HandleFunc("POST /drivers", drivers.Create)
	mux.HandleFunc("GET /drivers", drivers.List)
	mux.HandleFunc("GET /drivers/{id}", drivers.Get)
	mux.HandleFunc("PUT /drivers/{id}", drivers.Update)
	mux.HandleFunc("DELETE /drivers/{id}", drivers.Delete)

	mux.HandleFunc("POST /vehicles", vehicles.Create)
	mux.HandleFunc("GET /vehicles", vehicles.List)
	mux.HandleFunc("GET /vehicles/{id}", vehicles.Get)
	mux.HandleFunc("PUT /vehicles/{id}", vehicles.Update)
	mux.HandleFunc("DELETE /vehicles/{id}", vehicles.Delete)

	mux.HandleFunc("POST /assets", assets.Create)
	mux.HandleFunc("GET /assets", assets.List)
	mux.HandleFunc("GET /assets/{id}", assets.Get)
	mux.HandleFunc("PUT /assets/{id}", assets.Update)
	mux.HandleFunc("DELETE /assets/{id}", assets.Delete)

	mux.HandleFunc("POST /shipments", shipments.Create)
	mux.HandleFunc("GET /shipments", shipments.List)
	mux.HandleFunc("GET /shipments/{id}", shipments.Get)
	mux.HandleFunc("PUT /shipments/{id}", shipments.Update)
	mux.HandleFunc("DELETE /shipments/{id}", shipments.Delete)
	mux.HandleFunc("POST /shipments/{id}/status", shipments.RecordStatus)
	mux.HandleFunc("GET /shipments/{id}/status", shipments.CurrentStatus)
	mux.HandleFunc("GET /shipments/{id}/events", shipments.ListEvents)
	mux.HandleFunc("POST /shipments/{id}/items", shipments.AddItem)
	mux.HandleFunc("GET /shipments/{id}/items", shipments.ListItems)
	mux.HandleFunc("DELETE /shipments/{id}/items/{itemID}", shipments.DeleteItem)

	mux.HandleFunc("POST /tracking/devices", tracking.CreateDevice)
	mux.HandleFunc("GET /tracking/devices", tracking.ListDevices)
	mux.HandleFunc("GET /tracking/devices/{id}", tracking.GetDevice)
	mux.HandleFunc("PUT /tracking/devices/{id}", tracking.UpdateDevice)
	mux.HandleFunc("POST /tracking/devices/{id}/pings", tracking.RecordPing)
	mux.HandleFunc("GET /tracking/devices/{id}/pings", tracking.ListPings)
	mux.HandleFunc("POST /tracking/devices/{id}/events", tracking.RecordEvent)
	mux.HandleFunc("GET /tracking/devices/{id}/events", tracking.ListEvents)
	if d.Hub != nil {
		mux.Handle("GET /tracking/devices/{id}/live", live.NewStreamHandler(d.Hub, d.Tracking))
	}

	mux.HandleFunc("POST /notes", notes.Create)
	mux.HandleFunc("GET /notes", notes.List)
	mux.HandleFunc("DELETE /notes/{id}", notes.Delete)

	mux.HandleFunc("POST /attachments", attachments.Upload)
	mux.HandleFunc("GET /attachments", attachments.List)
	mux.HandleFunc("GET /attachments/{id}/file", attachments.Download)
	mux.HandleFunc("DELETE /attachments/{id}", attachments.Delete)

	return requestIDMiddleware(loggingMiddleware(mux))
}
