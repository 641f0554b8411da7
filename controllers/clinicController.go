package controllers

import (
	"PearlDental/handlers"

	"github.com/gin-gonic/gin"
)

func SetupClinicRoutes(router *gin.Engine, patientHandler *handlers.PatientHandler, doctorHandler *handlers.DoctorHandler, appointmentHandler *handlers.AppointmentHandler, treatmentPlanHandler *handlers.TreatmentPlanHandler, invoiceHandler *handlers.InvoiceHandler, messageHandler *handlers.MessageHandler) {
	// Define the routes directly on the router
	router.POST("/doctors", doctorHandler.CreateDoctor)
	router.GET("/doctors/:id", doctorHandler.GetDoctorByID)
	router.PUT("/doctors/:id", doctorHandler.UpdateDoctor)
	router.DELETE("/doctors/:id", doctorHandler.DeleteDoctor)
	router.GET("/doctors", doctorHandler.GetAllDoctors)

	router.POST("/patients", patientHandler.CreatePatient)
	router.GET("/patients/:patient_id", patientHandler.GetPatientByID)
	router.PUT("/patients/:patient_id", patientHandler.UpdatePatient)
	router.DELETE("/patients/:patient_id", patientHandler.DeletePatient)
	router.GET("/patients", patientHandler.GetAllPatients)

	router.POST("/patients/:patient_id/appointments", appointmentHandler.CreateAppointment)
	router.GET("/patients/:patient_id/appointments", appointmentHandler.GetAllAppointments)
	router.GET("/patients/:patient_id/appointments/:appointment_id", appointmentHandler.GetAppointmentByID)
	router.PUT("/patients/:patient_id/appointments/:appointment_id", appointmentHandler.UpdateAppointment)
	router.DELETE("/patients/:patient_id/appointments/:appointment_id", appointmentHandler.DeleteAppointment)

	router.POST("/patients/:patient_id/treatment_plans", treatmentPlanHandler.CreateTreatmentPlan)
	router.GET("/patients/:patient_id/treatment_plans", treatmentPlanHandler.GetAllTreatmentPlans)
	router.GET("/patients/:patient_id/treatment_plans/:treatment_plan_id", treatmentPlanHandler.GetTreatmentPlanByID)
	router.PUT("/patients/:patient_id/treatment_plans/:treatment_plan_id", treatmentPlanHandler.UpdateTreatmentPlan)
	router.DELETE("/patients/:patient_id/treatment_plans/:treatment_plan_id", treatmentPlanHandler.DeleteTreatmentPlan)

	router.POST("/invoices", invoiceHandler.CreateInvoice)
	router.GET("/invoices", invoiceHandler.GetAllInvoices)
	router.GET("/invoices/:invoice_id", invoiceHandler.GetInvoiceByID)
	router.GET("/patients/:patient_id/invoices", invoiceHandler.GetInvoicesByPatient)
	router.POST("/invoices/:invoice_id/record-payment", invoiceHandler.RecordPayment)
	router.GET("/invoices/:invoice_id/transactions", invoiceHandler.GetTransactions)
	router.DELETE("/invoices/:invoice_id/transactions/:transaction_id", invoiceHandler.DeletePaymentTransaction)

	router.POST("/messages", messageHandler.SendMessage)
	router.GET("/messages", messageHandler.GetInbox)
	router.GET("/messages/:message_id", messageHandler.GetMessageByID)
	router.PUT("/messages/:message_id/read", messageHandler.MarkMessageRead)
	router.DELETE("/messages/:message_id", messageHandler.DeleteMessage)
}
