package router

import (
	"net/http"
	"strings"

	"vongtay-handmade/app/controller"
)

type Controllers struct {
	Material  *controller.MaterialController
	Product   *controller.ProductController
	Order     *controller.OrderController
	Promo     *controller.PromoController
	Reconcile *controller.ReconcileController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Materials routes
	http.HandleFunc("/admin/materials", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Material.Create(w, r)
		} else if r.Method == http.MethodGet {
			controllers.Material.List(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Material actions: PUT /admin/materials/:id/cost, DELETE /admin/materials/:id
	http.HandleFunc("/admin/materials/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/materials/")
		if strings.HasSuffix(path, "/cost") && r.Method == http.MethodPut {
			controllers.Material.UpdateCost(w, r)
			return
		}
		if r.Method == http.MethodDelete {
			controllers.Material.Delete(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Products routes
	http.HandleFunc("/admin/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Product.Create(w, r)
		} else if r.Method == http.MethodGet {
			controllers.Product.List(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Product BOM: PUT/GET /admin/products/:id/bom
	http.HandleFunc("/admin/products/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/products/")
		if strings.HasSuffix(path, "/bom") {
			if r.Method == http.MethodPut {
				controllers.Product.SetBOM(w, r)
				return
			}
			if r.Method == http.MethodGet {
				controllers.Product.GetBOM(w, r)
				return
			}
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Orders routes
	http.HandleFunc("/admin/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Order.Create(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Order actions (specific suffixes first, then the generic /:id route)
	http.HandleFunc("/admin/orders/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/orders/")

		// POST /admin/orders/export
		if path == "export" && r.Method == http.MethodPost {
			controllers.Order.Export(w, r)
			return
		}
		// DELETE /admin/orders/items/:itemId
		if strings.HasPrefix(path, "items/") && r.Method == http.MethodDelete {
			controllers.Order.RemoveItem(w, r)
			return
		}
		// POST /admin/orders/:id/items
		if strings.HasSuffix(path, "/items") && r.Method == http.MethodPost {
			controllers.Order.AddItem(w, r)
			return
		}
		// PUT /admin/orders/:id/charges
		if strings.HasSuffix(path, "/charges") && r.Method == http.MethodPut {
			controllers.Order.UpdateCharges(w, r)
			return
		}
		// GET /admin/orders/:id/label/render (HTML page the screenshot loads)
		if strings.HasSuffix(path, "/label/render") && r.Method == http.MethodGet {
			controllers.Order.RenderLabel(w, r)
			return
		}
		// GET /admin/orders/:id/label
		if strings.HasSuffix(path, "/label") && r.Method == http.MethodGet {
			controllers.Order.GetLabel(w, r)
			return
		}
		// GET /admin/orders/:id
		if r.Method == http.MethodGet {
			controllers.Order.Get(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Campaign routes
	http.HandleFunc("/admin/campaigns", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Promo.CreateCampaign(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Campaign actions: PUT /:id/status, PUT/GET /:id/offers
	http.HandleFunc("/admin/campaigns/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/campaigns/")
		if strings.HasSuffix(path, "/status") && r.Method == http.MethodPut {
			controllers.Promo.SetStatus(w, r)
			return
		}
		if strings.HasSuffix(path, "/offers") {
			if r.Method == http.MethodPut {
				controllers.Promo.ReplaceOffers(w, r)
				return
			}
			if r.Method == http.MethodGet {
				controllers.Promo.ListOffers(w, r)
				return
			}
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Storefront purchase routes
	http.HandleFunc("/offers/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/offers/")
		if strings.HasSuffix(path, "/purchase") && r.Method == http.MethodPost {
			controllers.Promo.Purchase(w, r)
			return
		}
		if strings.HasSuffix(path, "/purchases") && r.Method == http.MethodGet {
			controllers.Promo.GetCustomerPurchases(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Refunds
	http.HandleFunc("/admin/purchases/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/purchases/")
		if strings.HasSuffix(path, "/refund") && r.Method == http.MethodPost {
			controllers.Promo.Refund(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Reconciliation
	http.HandleFunc("/admin/reconcile", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Reconcile.Run(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
}
