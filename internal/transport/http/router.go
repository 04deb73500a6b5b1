package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CernunnosYQ/blogfolio/internal/handlers"
	authmw "github.com/CernunnosYQ/blogfolio/internal/middleware/auth"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Blogposts *handlers.BlogpostHandler
	Projects  *handlers.ProjectHandler
	Tags      *handlers.TagHandler
	Search    *handlers.SearchHandler
	Guard     *authmw.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/login", d.Auth.Login)
	e.POST("/refresh", d.Auth.Refresh)
	e.POST("/logout", d.Auth.Logout)

	e.GET("/get/user/:id", d.Users.GetUser)
	e.POST("/create/user", d.Users.CreateUser)

	e.GET("/get/blogposts", d.Blogposts.GetBlogposts)
	e.GET("/get/blogposts/:tag", d.Blogposts.GetBlogposts)
	e.GET("/get/blogpost/:id", d.Blogposts.GetBlogpost)

	e.GET("/get/projects", d.Projects.GetProjects)
	e.GET("/get/project/:id", d.Projects.GetProject)

	e.GET("/get/tags", d.Tags.GetTags)
	e.GET("/get/tag/:name", d.Tags.GetTag)
	e.GET("/get/techs", d.Tags.GetTechs)

	e.GET("/search", d.Search.Search)

	private := e.Group("", d.Guard.RequireUser)

	private.PUT("/update/user/:id", d.Users.UpdateUser)
	private.PUT("/update/password/:id", d.Users.UpdatePassword)
	private.DELETE("/delete/user/:id", d.Users.DeleteUser)

	private.POST("/create/blogpost", d.Blogposts.CreateBlogpost)
	private.PUT("/update/blogpost/:id", d.Blogposts.UpdateBlogpost)
	private.DELETE("/delete/blogpost/:id", d.Blogposts.DeleteBlogpost)

	private.POST("/create/project", d.Projects.CreateProject)
	private.PUT("/update/project/:id", d.Projects.UpdateProject)
	private.DELETE("/delete/project/:id", d.Projects.DeleteProject)

	private.POST("/create/tag", d.Tags.CreateTag)
	private.PUT("/update/tag/:id", d.Tags.UpdateTag)
	private.DELETE("/delete/tag/:id", d.Tags.DeleteTag)

	private.POST("/create/tech", d.Tags.CreateTech)
	private.DELETE("/delete/tech/:id", d.Tags.DeleteTech)
}
