package handlers

import (
	"PearlDental/middlewares"
	"PearlDental/models"
	"PearlDental/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if doctor.ID == "" {
		doctor.ID = uuid.New().String()
	}
	if err := h.service.Create(c.Request.Context(), &doctor); err != nil {
		middlewares.HttpError(c, "Failed to create doctor", http.StatusInternalServerError, err)
		return
	}
	middlewares.RespondJSON(c, doctor, http.StatusCreated)
}

func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	doctor, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		middlewares.HttpError(c, "Failed to get doctor", http.StatusInternalServerError, err)
		return
	}
	if doctor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Doctor not found"})
		return
	}
	middlewares.RespondJSON(c, doctor, http.StatusOK)
}

func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	doctors, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, "Failed to get doctors", http.StatusInternalServerError, err)
		return
	}
	middlewares.RespondJSON(c, doctors, http.StatusOK)
}

func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doctor.ID = c.Param("id")
	if err := h.service.Update(c.Request.Context(), &doctor); err != nil {
		middlewares.HttpError(c, "Failed to update doctor", http.StatusInternalServerError, err)
		return
	}
	middlewares.RespondJSON(c, doctor, http.StatusOK)
}

func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middlewares.HttpError(c, "Failed to delete doctor", http.StatusInternalServerError, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Doctor deleted"}, http.StatusOK)
}
