package delivery

import (
	"net/http"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const htmlEndpointsPage = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Catalog Service API</title>
    <style>
        body { font-family: Helvetica, Arial, sans-serif; line-height: 1.6; padding: 20px; background-color: #f9f9f9; color: #333; }
        h1, h2 { border-bottom: 1px solid #ccc; padding-bottom: 5px; }
        ul { list-style: none; padding-left: 0; }
        li { margin-bottom: 10px; background-color: #fff; padding: 10px; border: 1px solid #eee; border-radius: 4px; }
        code { background-color: #e8e8e8; padding: 3px 6px; border-radius: 3px; font-family: Consolas, Monaco, monospace; }
        .method { font-weight: bold; display: inline-block; width: 60px; }
        .method-post { color: #49cc90; }
        .method-get { color: #61affe; }
        .method-patch { color: #fca130; }
        .method-delete { color: #f93e3e; }
    </style>
</head>
<body>
    <h1>Catalog Service API</h1>

    <h2>Storefront</h2>
    <ul>
        <li><span class="method method-get">GET</span> <code><a href="/api/products">/api/products</a></code> - Product grid. Query: <code>category</code>, <code>min_price</code>, <code>max_price</code>, <code>availability</code>, <code>sort</code>, <code>direction</code>, <code>raw=1</code> for a bare array.</li>
        <li><span class="method method-get">GET</span> <code>/api/products/{id}</code> - Product detail.</li>
        <li><span class="method method-get">GET</span> <code><a href="/api/featured">/api/featured</a></code> - Featured section.</li>
        <li><span class="method method-get">GET</span> <code><a href="/api/categories">/api/categories</a></code> - Categories with product counts.</li>
    </ul>

    <h2>Admin (Bearer token from <code>POST /auth/login</code>)</h2>
    <ul>
        <li><span class="method method-get">GET</span> <code>/admin/products</code> - Product table with stats and sort state.</li>
        <li><span class="method method-post">POST</span> <code>/admin/products</code> - Add a product.</li>
        <li><span class="method method-patch">PATCH</span> <code>/admin/products/{id}</code> - Edit a product.</li>
        <li><span class="method method-delete">DELETE</span> <code>/admin/products/{id}</code> - Delete a product.</li>
        <li><span class="method method-post">POST</span> <code>/admin/products/{id}/featured</code> - Toggle featured (at most 8).</li>
        <li><span class="method method-post">POST</span> <code>/admin/products/sort</code> - Sort the catalog. Body: <code>{"field": "name|category|price|availability", "direction": "asc|desc"}</code></li>
        <li><span class="method method-post">POST</span> <code>/admin/products/import</code> - CSV import.</li>
        <li><span class="method method-get">GET</span> <code>/admin/products/export</code> - CSV export.</li>
        <li><span class="method method-get">GET</span> <code>/admin/stats</code> - Dashboard counters.</li>
        <li><span class="method method-get">GET</span> <code>/admin/categories</code>, <span class="method method-post">POST</span> <code>/admin/categories</code>, <span class="method method-patch">PATCH</span> <code>/admin/categories/{name}</code></li>
    </ul>
</body>
</html>
`

// RouterDeps holds the use cases the HTTP API is built from. Products,
// Categories and Auth may be nil, which leaves the admin API unmounted.
type RouterDeps struct {
	Storefront usecase.StorefrontUseCase
	Products   usecase.ProductUseCase
	Categories usecase.CategoryUseCase
	Auth       usecase.AuthUseCase
}

func NewRouter(deps RouterDeps, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(htmlEndpointsPage))
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	NewStorefrontHandler(deps.Storefront, logger).RegisterRoutes(router)

	if deps.Auth != nil && deps.Products != nil && deps.Categories != nil {
		NewAuthHandler(deps.Auth, logger).RegisterRoutes(router)

		admin := router.Group("/admin")
		admin.Use(AuthMiddleware(deps.Auth, logger))
		NewProductHandler(deps.Products, logger).RegisterRoutes(admin)
		NewCategoryHandler(deps.Categories, logger).RegisterRoutes(admin)
		logger.Info("Admin API routes registered.")
	}

	logger.Info("API Routes registered.")
	return router
}
