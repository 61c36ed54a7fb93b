package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/furnet-labs/furnet/internal/apperrors"
	"github.com/furnet-labs/furnet/internal/friends"
	"github.com/furnet-labs/furnet/internal/items"
	"github.com/furnet-labs/furnet/internal/linker"
	"github.com/furnet-labs/furnet/internal/metrics"
	"github.com/furnet-labs/furnet/internal/monitor"
	"github.com/furnet-labs/furnet/internal/probe"
	"github.com/furnet-labs/furnet/internal/profile"
)

// API holds the instance's components and serves them over HTTP.
type API struct {
	logger  *slog.Logger
	self    profile.AnimalProfile
	friends *friends.Registry
	linker  *linker.Linker
	prober  *probe.Engine
	session *monitor.Session
	items   *items.Store
	metrics *metrics.Collector
}

func NewAPI(
	logger *slog.Logger,
	self profile.AnimalProfile,
	registry *friends.Registry,
	link *linker.Linker,
	prober *probe.Engine,
	session *monitor.Session,
	itemStore *items.Store,
) *API {
	return &API{
		logger:  logger,
		self:    self,
		friends: registry,
		linker:  link,
		prober:  prober,
		session: session,
		items:   itemStore,
	}
}

// WithMetrics exposes probe statistics at /metrics.
func (a *API) WithMetrics(collector *metrics.Collector) *API {
	a.metrics = collector
	return a
}

// Register wires all routes onto the echo instance.
func (a *API) Register(e *echo.Echo) {
	e.GET("/health", a.health)
	e.GET("/health/live", a.healthLive)
	e.GET("/health/ready", a.healthReady)

	if a.metrics != nil {
		e.GET("/metrics", a.probeMetrics)
	}

	api := e.Group("/api")
	api.GET("/me", a.getMe)

	api.GET("/friends", a.listFriends)
	api.POST("/friends", a.addFriend)
	api.DELETE("/friends/:unique_id", a.removeFriend)
	api.POST("/friends/link", a.linkFriend)

	api.POST("/health-check", a.healthCheck)

	api.GET("/monitor/status", a.monitorStatus)
	api.POST("/monitor/instances", a.addMonitoredInstance)
	api.DELETE("/monitor/instances", a.removeMonitoredInstance)

	api.GET("/items", a.listItems)
	api.GET("/items/:id", a.getItem)
	api.POST("/items", a.createItem)
	api.DELETE("/items/:id", a.deleteItem)
}

func (a *API) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (a *API) healthLive(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

func (a *API) healthReady(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (a *API) probeMetrics(c echo.Context) error {
	return c.JSON(http.StatusOK, a.metrics.Snapshot())
}

func (a *API) getMe(c echo.Context) error {
	return c.JSON(http.StatusOK, a.self)
}

func (a *API) listFriends(c echo.Context) error {
	list, err := a.friends.List(c.Request().Context())
	if err != nil {
		return err
	}
	if list == nil {
		list = []friends.Friend{}
	}

	return c.JSON(http.StatusOK, list)
}

func (a *API) addFriend(c echo.Context) error {
	var candidate friends.Candidate
	if err := c.Bind(&candidate); err != nil {
		return apperrors.BadParameter("invalid request body", err)
	}

	friend, err := a.friends.Add(c.Request().Context(), candidate)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, friend)
}

func (a *API) removeFriend(c echo.Context) error {
	_, err := a.friends.Remove(c.Request().Context(), c.Param("unique_id"))
	if err != nil {
		return err
	}

	// Removing an absent id is not an error.
	return c.NoContent(http.StatusNoContent)
}

type linkRequest struct {
	URL string `json:"url"`
}

func (a *API) linkFriend(c echo.Context) error {
	var req linkRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadParameter("invalid request body", err)
	}

	friend, err := a.linker.Link(c.Request().Context(), a.self.ID, req.URL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, friend)
}

type healthCheckRequest struct {
	InstanceURLs []string `json:"instance_urls"`
}

func (a *API) healthCheck(c echo.Context) error {
	var req healthCheckRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadParameter("invalid request body", err)
	}

	statuses := a.prober.ProbeAll(c.Request().Context(), req.InstanceURLs)
	if statuses == nil {
		statuses = []probe.HealthStatus{}
	}

	return c.JSON(http.StatusOK, statuses)
}

func (a *API) monitorStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, a.session.Snapshot())
}

type monitorInstanceRequest struct {
	URL string `json:"url"`
}

func (a *API) addMonitoredInstance(c echo.Context) error {
	var req monitorInstanceRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadParameter("invalid request body", err)
	}
	if req.URL == "" {
		return apperrors.BadParameter("url is required", nil)
	}

	a.session.AddURL(req.URL)
	return c.NoContent(http.StatusNoContent)
}

func (a *API) removeMonitoredInstance(c echo.Context) error {
	url := c.QueryParam("url")
	if url == "" {
		return apperrors.BadParameter("url query parameter is required", nil)
	}

	a.session.RemoveURL(url)
	return c.NoContent(http.StatusNoContent)
}

func (a *API) listItems(c echo.Context) error {
	return c.JSON(http.StatusOK, a.items.List())
}

func (a *API) getItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apperrors.BadParameter("item id must be an integer", err)
	}

	item, err := a.items.Get(id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

func (a *API) createItem(c echo.Context) error {
	var item items.Item
	if err := c.Bind(&item); err != nil {
		return apperrors.BadParameter("invalid request body", err)
	}
	if item.Name == "" {
		return apperrors.BadParameter("item name is required", nil)
	}

	return c.JSON(http.StatusOK, a.items.Create(item))
}

func (a *API) deleteItem(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apperrors.BadParameter("item id must be an integer", err)
	}

	if err := a.items.Delete(id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Item deleted"})
}
