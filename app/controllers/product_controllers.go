package controllers

import (
	"net/http"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/app/resources"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/bind"
	"github.com/binodghimire/agrihaat/pkg/resource"
	"github.com/binodghimire/agrihaat/pkg/response"
)

type ProductController struct {
	catalog *services.CatalogService
	reviews *services.ReviewService
}

func NewProductController(catalog *services.CatalogService, reviews *services.ReviewService) *ProductController {
	return &ProductController{catalog: catalog, reviews: reviews}
}

// Index is the public catalog: available products only, filterable by
// category and search term.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ProductFilter{
		Status:   models.ProductAvailable,
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}
	page, perPage := pageParams(r)

	items, pagination, err := c.catalog.List(filter, page, perPage)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.ProductResource{}, items).
		WithPagination(pagination).
		Respond(w)
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalog.Find(uintParam(r, "id"))
	if err != nil {
		fail(w, err)
		return
	}
	resource.New(&resources.ProductResource{}, product).Respond(w)
}

// Reviews lists a product's reviews with the average rating in meta.
func (c *ProductController) Reviews(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)
	items, pagination, avg, err := c.reviews.ListForProduct(uintParam(r, "id"), page, perPage)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.ReviewResource{}, items).
		WithPagination(pagination).
		WithMeta(resource.Map{"average_rating": avg}).
		Respond(w)
}

// Mine lists the calling farmer's own products, drafts included.
func (c *ProductController) Mine(w http.ResponseWriter, r *http.Request) {
	me := actor(r)
	page, perPage := pageParams(r)

	items, pagination, err := c.catalog.List(repositories.ProductFilter{FarmerID: me.ID}, page, perPage)
	if err != nil {
		fail(w, err)
		return
	}
	resource.CollectionOf(&resources.ProductResource{}, items).
		WithPagination(pagination).
		Respond(w)
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Create(actor(r).ID, in)
	if err != nil {
		fail(w, err)
		return
	}
	response.Created(w, resource.New(&resources.ProductResource{}, product))
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.Update(actor(r), uintParam(r, "id"), in)
	if err != nil {
		fail(w, err)
		return
	}
	resource.New(&resources.ProductResource{}, product).Respond(w)
}

func (c *ProductController) Archive(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.Archive(actor(r), uintParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]string{"status": models.ProductArchived})
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.Delete(actor(r), uintParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	response.Success(w, map[string]string{"status": "deleted"})
}

// UploadImage accepts a multipart "image" field up to 8 MB.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "image field is required")
		return
	}
	defer file.Close()

	product, err := c.catalog.AttachImage(actor(r), uintParam(r, "id"), header.Filename, file)
	if err != nil {
		fail(w, err)
		return
	}
	resource.New(&resources.ProductResource{}, product).Respond(w)
}
