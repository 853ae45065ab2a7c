package routes

import (
	gql "github.com/graphql-go/graphql"

	"github.com/binodghimire/agrihaat/app/models"
	"github.com/binodghimire/agrihaat/app/repositories"
	"github.com/binodghimire/agrihaat/app/services"
	"github.com/binodghimire/agrihaat/pkg/graphql"
	"github.com/binodghimire/agrihaat/pkg/logger"
	"github.com/binodghimire/agrihaat/pkg/router"
)

// registerGraphQL mounts a read-only query endpoint over the catalog.
// Writes stay on REST where the stock invariants are enforced.
func registerGraphQL(r *router.Router, catalog *services.CatalogService) {
	productType := gql.NewObject(gql.ObjectConfig{
		Name: "Product",
		Fields: gql.Fields{
			"id":          &gql.Field{Type: gql.Int},
			"name":        &gql.Field{Type: gql.String},
			"description": &gql.Field{Type: gql.String},
			"category":    &gql.Field{Type: gql.String},
			"unit":        &gql.Field{Type: gql.String},
			"pricePaisa": &gql.Field{
				Type: gql.Int,
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					product, _ := p.Source.(models.Product)
					return int(product.PricePaisa), nil
				},
			},
			"quantity":    &gql.Field{Type: gql.Int},
			"minOrderQty": &gql.Field{Type: gql.Int},
			"status":      &gql.Field{Type: gql.String},
		},
	})

	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"product": &gql.Field{
				Type: productType,
				Args: gql.FieldConfigArgument{
					"id": &gql.ArgumentConfig{Type: gql.NewNonNull(gql.Int)},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					return catalog.Find(uint(id))
				},
			},
			"products": &gql.Field{
				Type: gql.NewList(productType),
				Args: gql.FieldConfigArgument{
					"category": &gql.ArgumentConfig{Type: gql.String},
					"search":   &gql.ArgumentConfig{Type: gql.String},
					"farmerId": &gql.ArgumentConfig{Type: gql.Int},
					"page":     &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 1},
					"perPage":  &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 20},
				},
				Resolve: func(p gql.ResolveParams) (interface{}, error) {
					category, _ := p.Args["category"].(string)
					search, _ := p.Args["search"].(string)
					farmerID, _ := p.Args["farmerId"].(int)
					page, _ := p.Args["page"].(int)
					perPage, _ := p.Args["perPage"].(int)

					items, _, err := catalog.List(repositories.ProductFilter{
						Status:   models.ProductAvailable,
						FarmerID: uint(farmerID),
						Category: category,
						Search:   search,
					}, page, perPage)
					return items, err
				},
			},
		},
	})

	schema, err := graphql.NewSchema(query)
	if err != nil {
		logger.Error("graphql schema not mounted", "error", err.Error())
		return
	}
	r.Post("/api/graphql", "graphql", graphql.Handler(schema))
}
