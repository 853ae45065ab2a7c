// The agrihaat CLI manages the marketplace deployment:
//
//	agrihaat serve            # start the API server
//	agrihaat migrate          # run migrations
//	agrihaat migrate:rollback
//	agrihaat migrate:status
//	agrihaat seed             # insert demo data
//	agrihaat queue:work       # standalone queue worker
//	agrihaat schedule:run     # standalone scheduler
//	agrihaat route:list       # list API routes
package main
