package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/basha_lagbe/internal/api/http/converter"
	"github.com/immxrtalbeast/basha_lagbe/internal/domain"
	"github.com/immxrtalbeast/basha_lagbe/internal/service"
)

type LeaseController struct {
	leases   service.LeaseInteractor
	bookings service.BookingInteractor
	log      *slog.Logger
}

func NewLeaseController(leases service.LeaseInteractor, bookings service.BookingInteractor, log *slog.Logger) *LeaseController {
	return &LeaseController{leases: leases, bookings: bookings, log: log}
}

func (c *LeaseController) CreateRequest(ctx *gin.Context) {
	var req converter.LeaseRequestRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lr, err := c.leases.CreateLeaseRequest(ctx.Request.Context(), principal(ctx), converter.LeaseRequestInputFromApi(&req))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"leaseRequest": lr})
}

func (c *LeaseController) ListRequests(ctx *gin.Context) {
	var query converter.LeaseQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		badRequest(ctx, bindingMessage(err))
		return
	}

	lrs, err := c.leases.ListLeaseRequests(ctx.Request.Context(), converter.LeaseQueryFromApi(principal(ctx).ID, &query))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"leaseRequests": lrs})
}

func (c *LeaseController) GetRequest(ctx *gin.Context) {
	id, ok := pathID(ctx, "leaseRequestID")
	if !ok {
		return
	}

	lr, err := c.leases.GetLeaseRequest(ctx.Request.Context(), principal(ctx).ID, id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"leaseRequest": lr})
}

func (c *LeaseController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "leaseRequestID")
	if !ok {
		return
	}
	var req converter.StatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	lr, err := c.leases.UpdateStatus(ctx.Request.Context(), principal(ctx).ID, id, converter.StatusChangeFromApi(&req))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"leaseRequest": lr})
}

func (c *LeaseController) CreateBooking(ctx *gin.Context) {
	var req converter.BookingRequest
	if !bindJSON(ctx, &req) {
		return
	}

	booking, err := c.bookings.CreateBooking(ctx.Request.Context(), principal(ctx).ID, req.LeaseRequestID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"booking": booking})
}

func (c *LeaseController) ListBookings(ctx *gin.Context) {
	bookings, err := c.bookings.ListBookings(ctx.Request.Context(), principal(ctx).ID)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (c *LeaseController) GetBooking(ctx *gin.Context) {
	id, ok := pathID(ctx, "bookingID")
	if !ok {
		return
	}

	booking, err := c.bookings.GetBooking(ctx.Request.Context(), principal(ctx).ID, id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (c *LeaseController) UpdateBooking(ctx *gin.Context) {
	id, ok := pathID(ctx, "bookingID")
	if !ok {
		return
	}
	var req converter.BookingStatusRequest
	if !bindJSON(ctx, &req) {
		return
	}

	booking, err := c.bookings.ChangeStatus(ctx.Request.Context(), principal(ctx).ID, id, domain.BookingStatus(req.Status))
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"booking": booking})
}

func (c *LeaseController) PayBooking(ctx *gin.Context) {
	id, ok := pathID(ctx, "bookingID")
	if !ok {
		return
	}

	booking, err := c.bookings.Pay(ctx.Request.Context(), principal(ctx).ID, id)
	if err != nil {
		writeError(ctx, c.log, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"booking": booking})
}
