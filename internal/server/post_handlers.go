package server

import (
	"fmt"
	"time"

	"inkwell/internal/forms"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
)

// Index handles GET / and lists all posts, newest first.
func (s *Server) Index(c *fiber.Ctx) error {
	posts, err := s.postRepo.ListByDateDesc(c.Context())
	if err != nil {
		return err
	}
	return s.render(c, fiber.StatusOK, "index", fiber.Map{"Posts": posts})
}

// ShowPost handles GET /post/:id
func (s *Server) ShowPost(c *fiber.Ctx) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "post", fiber.Map{
		"Title":      post.Title,
		"Post":       post,
		"DatePosted": post.PostedOn(),
	})
}

// UserPosts handles GET /userposts/:id, a user's own post listing. The id
// must be the session user's own; anyone else's gets a 403 page.
func (s *Server) UserPosts(c *fiber.Ctx) error {
	user, _ := s.currentUser(c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 || uint(id) != user.ID {
		return models.NewForbiddenError("You can only view your own post listing")
	}

	posts, err := s.postRepo.ListByAuthor(c.Context(), user.Username)
	if err != nil {
		return err
	}

	return s.render(c, fiber.StatusOK, "userposts", fiber.Map{
		"Title": "My posts",
		"User":  user,
		"Posts": posts,
	})
}

// AddPage handles GET /add and GET /addpost with a blank authoring form.
func (s *Server) AddPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "add", fiber.Map{
		"Title": "New post",
		"Form":  &forms.BlogForm{},
	})
}

// AddPost handles POST /addpost. The author and timestamp come from the
// session and the clock, never from the form.
func (s *Server) AddPost(c *fiber.Ctx) error {
	user, _ := s.currentUser(c)

	form := blogFormFromRequest(c)
	if !form.Validate() {
		return s.render(c, fiber.StatusOK, "add", fiber.Map{
			"Title": "New post",
			"Form":  form,
		})
	}

	post := &models.Post{
		Title:      form.Title,
		Subtitle:   form.Subtitle,
		Content:    form.Content,
		Author:     user.Username,
		DatePosted: time.Now(),
	}
	if err := s.postRepo.Create(c.Context(), post); err != nil {
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

// EditPage handles GET /post/:id/edit with the form pre-filled. Non-owners
// are bounced to the front page without an error message.
func (s *Server) EditPage(c *fiber.Ctx) error {
	user, _ := s.currentUser(c)

	id, err := parsePostID(c)
	if err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if post.Author != user.Username {
		return c.Redirect("/", fiber.StatusFound)
	}

	form := &forms.BlogForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		Content:  post.Content,
	}
	return s.render(c, fiber.StatusOK, "edit", fiber.Map{
		"Title": "Edit post",
		"Post":  post,
		"Form":  form,
	})
}

// EditPost handles POST /post/:id/edit. Only title, subtitle, and content
// change; author and date_posted stay as created.
func (s *Server) EditPost(c *fiber.Ctx) error {
	user, _ := s.currentUser(c)

	id, err := parsePostID(c)
	if err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if post.Author != user.Username {
		return c.Redirect("/", fiber.StatusFound)
	}

	form := blogFormFromRequest(c)
	if !form.Validate() {
		return s.render(c, fiber.StatusOK, "edit", fiber.Map{
			"Title": "Edit post",
			"Post":  post,
			"Form":  form,
		})
	}

	update := repository.PostUpdate{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Content:  form.Content,
	}
	if err := s.postRepo.Update(c.Context(), id, update); err != nil {
		return err
	}

	session.AddFlash(c, "success", "Your post has been updated!")
	return c.Redirect(fmt.Sprintf("/post/%d", id), fiber.StatusFound)
}

// DeletePost handles GET /post/:id/delete
func (s *Server) DeletePost(c *fiber.Ctx) error {
	user, _ := s.currentUser(c)

	id, err := parsePostID(c)
	if err != nil {
		return err
	}
	post, err := s.postRepo.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	if post.Author != user.Username {
		return c.Redirect("/", fiber.StatusFound)
	}

	if err := s.postRepo.Delete(c.Context(), id); err != nil {
		return err
	}

	session.AddFlash(c, "success", "Your record has been deleted!")
	return c.Redirect("/", fiber.StatusFound)
}

// blogFormFromRequest binds the authoring form fields from the request body.
func blogFormFromRequest(c *fiber.Ctx) *forms.BlogForm {
	return &forms.BlogForm{
		Title:    c.FormValue("title"),
		Subtitle: c.FormValue("subtitle"),
		Content:  c.FormValue("content"),
	}
}

// parsePostID reads the :id route parameter. Anything non-numeric is treated
// the same as an unknown post.
func parsePostID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, models.NewNotFoundError("Post", c.Params("id"))
	}
	return uint(id), nil
}
