package dashboard

// MetricsResponse holds the headline counts. Monthly counts cover the current calendar month.
type MetricsResponse struct {
	EmpleadosActivos  int64  `json:"empleadosActivos"`
	InasistenciasMes  int64  `json:"inasistenciasMes"`
	Justificadas      int64  `json:"justificadas"`
	Injustificadas    int64  `json:"injustificadas"`
	LicenciasMedicas  int64  `json:"licenciasMedicas"`
	Vacaciones        int64  `json:"vacaciones"`
	Sanciones         int64  `json:"sanciones"`
	SinPresentismo    int64  `json:"sinPresentismo"`
	TotalHistorico    int64  `json:"totalHistorico"`
	Apercibimientos   int64  `json:"apercibimientos"`
	SancionesActivas  int64  `json:"sancionesActivas"`
	RecibosPendientes int64  `json:"recibosPendientes"`
	Month             string `json:"month"`
}
