package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/llNABSll/customer-api/internal/model"
	"github.com/llNABSll/customer-api/internal/service"
)

type newClient struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
}

type deleted struct {
	Detail string `json:"detail"`
}

// CustomerHTTPHandler is http handler for clients endpoint
type CustomerHTTPHandler struct {
	customerSvc service.CustomerService
}

// NewCustomerHTTPHandler builds new CustomerHTTPHandler
func NewCustomerHTTPHandler(customerSvc service.CustomerService) *CustomerHTTPHandler {
	return &CustomerHTTPHandler{customerSvc: customerSvc}
}

// Get gets client
// @Summary     Get single client by id
// @Description Returns single client with provided id
// @Tags        clients
// @Produce     json
// @Param       id     path     integer true "Client id"
// @Success     200    {object} model.Customer
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Router      /api/clients/{id} [get]
func (h *CustomerHTTPHandler) Get(c echo.Context) error {
	id, err := h.identifier(c)
	if err != nil {
		return err
	}

	customer, err := h.customerSvc.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

// GetAll gets all clients
// @Summary     Get all clients
// @Description Returns all clients
// @Tags        clients
// @Produce     json
// @Success     200    {array}  model.Customer
// @Failure     500    {object} echo.HTTPError
// @Router      /api/clients [get]
func (h *CustomerHTTPHandler) GetAll(c echo.Context) error {
	customers, err := h.customerSvc.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Post creates new client
// @Summary     New client
// @Description Creates new client and publishes customer.created event
// @Tags        clients
// @Accept      json
// @Produce     json
// @Param       newClient body     newClient true "Data for new client"
// @Success     201       {object} model.Customer
// @Failure     400       {object} echo.HTTPError
// @Failure     422       {object} validation.PayloadError
// @Failure     503       {object} echo.HTTPError
// @Router      /api/clients [post]
func (h *CustomerHTTPHandler) Post(c echo.Context) error {
	var nc newClient
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Create(c.Request().Context(), &model.Customer{
		Name:    nc.Name,
		Email:   nc.Email,
		Company: nc.Company,
		Phone:   nc.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, customer)
}

// Put updates client
// @Summary     Update client
// @Description Updates client and publishes customer.updated event
// @Tags        clients
// @Accept      json
// @Produce     json
// @Param       id        path     integer   true "Client id"
// @Param       newClient body     newClient true "Client data"
// @Success     200       {object} model.Customer
// @Failure     400       {object} echo.HTTPError
// @Failure     404       {object} echo.HTTPError
// @Failure     422       {object} validation.PayloadError
// @Failure     503       {object} echo.HTTPError
// @Router      /api/clients/{id} [put]
func (h *CustomerHTTPHandler) Put(c echo.Context) error {
	id, err := h.identifier(c)
	if err != nil {
		return err
	}

	var nc newClient
	if err := c.Bind(&nc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := c.Validate(&nc); err != nil {
		return err
	}

	customer, err := h.customerSvc.Update(c.Request().Context(), &model.Customer{
		ID:      id,
		Name:    nc.Name,
		Email:   nc.Email,
		Company: nc.Company,
		Phone:   nc.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteByID deletes client
// @Summary     Delete client by id
// @Description Deletes client with provided id and publishes customer.deleted event
// @Tags        clients
// @Produce     json
// @Param       id     path     integer true "Client id"
// @Success     200    {object} deleted
// @Failure     400    {object} echo.HTTPError
// @Failure     404    {object} echo.HTTPError
// @Failure     503    {object} echo.HTTPError
// @Router      /api/clients/{id} [delete]
func (h *CustomerHTTPHandler) DeleteByID(c echo.Context) error {
	id, err := h.identifier(c)
	if err != nil {
		return err
	}

	if err := h.customerSvc.DeleteByID(c.Request().Context(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, &deleted{Detail: "client deleted successfully"})
}

func (h *CustomerHTTPHandler) identifier(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "client id must be an integer")
	}
	return id, nil
}
