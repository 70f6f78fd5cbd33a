package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/sobooked/storefront/internal/handlers"
	mw "github.com/sobooked/storefront/internal/middleware"
)

type Deps struct {
	Sessions mw.Sessions

	Catalog *handlers.CatalogHandler
	Cart    *handlers.CartHandler
	Auth    *handlers.AuthHandler
	Books   *handlers.BooksHandler

	RateLimit float64
	RateBurst int
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.Use(ecM.Recover())
	e.Use(ecM.RequestID())
	if d.RateLimit > 0 {
		e.Use(mw.RateLimit(d.RateLimit, d.RateBurst))
	}
	e.Use(mw.WithSession(d.Sessions))

	e.POST("/login", d.Auth.Login)
	e.POST("/signup", d.Auth.Signup)
	e.POST("/logout", d.Auth.Logout)

	e.GET("/", d.Catalog.ListBooks)
	e.GET("/cities", func(c echo.Context) error {
		return c.JSON(http.StatusOK, d.Catalog.Store.Cities())
	})

	saved := e.Group("/books", mw.RequireSession)
	saved.POST("/:id/favorite", d.Catalog.SaveBook)
	saved.DELETE("/:id/favorite", d.Catalog.UnsaveBook)
	saved.GET("", d.Catalog.RefreshSaved)

	cart := e.Group("/cart", mw.RequireSession)
	cart.GET("", d.Cart.Open)
	cart.POST("/close", d.Cart.Close)
	cart.POST("/add", d.Cart.Add)
	cart.POST("/delete", d.Cart.Remove)
	cart.POST("/checkout", d.Cart.Checkout)

	e.POST("/addbook", d.Books.AddBook)

	admin := e.Group("/admin", mw.RequireAdmin)
	admin.POST("/addbook", d.Books.AddBook)
	admin.GET("/books/edit/:id", d.Books.EditBook)
	admin.DELETE("/books/delete/:id", d.Books.DeleteBook)

	// registered last: the slug route catches everything else at the root
	e.GET("/:bookName", d.Catalog.GetBook)
}
