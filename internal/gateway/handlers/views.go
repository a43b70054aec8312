package handlers

import (
	"time"

	"ventaspro/internal/commission"
	"ventaspro/internal/database/models"
	commissions "ventaspro/internal/services/commissions/handler"
	salespeople "ventaspro/internal/services/salespeople/handler"
	"ventaspro/internal/utils"
)

// Money and percentages go over the wire as strings with exactly two decimals.

type SalespersonSimpleView struct {
	ID             int64  `json:"id"`
	Nombre         string `json:"nombre"`
	Apellido       string `json:"apellido"`
	NombreCompleto string `json:"nombre_completo"`
	Email          string `json:"email"`
}

type SalespersonView struct {
	ID           int64      `json:"id"`
	Nombre       string     `json:"nombre"`
	Apellido     string     `json:"apellido"`
	Email        string     `json:"email"`
	Telefono     *string    `json:"telefono"`
	FechaIngreso utils.Date `json:"fecha_ingreso"`
	Activo       bool       `json:"activo"`
}

type SalespersonDetailView struct {
	SalespersonView
	TotalVentas     int64  `json:"total_ventas"`
	TotalComisiones string `json:"total_comisiones"`
}

type RuleView struct {
	ID                int64     `json:"id"`
	Nombre            string    `json:"nombre"`
	MontoMinimo       string    `json:"monto_minimo"`
	Porcentaje        string    `json:"porcentaje"`
	Activa            bool      `json:"activa"`
	FechaCreacion     time.Time `json:"fecha_creacion"`
	FechaModificacion time.Time `json:"fecha_modificacion"`
}

type SaleView struct {
	ID                 int64      `json:"id"`
	Vendedor           int64      `json:"vendedor"`
	VendedorNombre     string     `json:"vendedor_nombre"`
	VendedorApellido   string     `json:"vendedor_apellido"`
	VendedorCompleto   string     `json:"vendedor_completo"`
	Fecha              utils.Date `json:"fecha"`
	Monto              string     `json:"monto"`
	Descripcion        *string    `json:"descripcion"`
	ComisionCalculada  string     `json:"comision_calculada"`
	PorcentajeAplicado string     `json:"porcentaje_aplicado"`
	FechaRegistro      time.Time  `json:"fecha_registro"`
}

type StatisticsView struct {
	TotalVentas      string `json:"total_ventas"`
	TotalComisiones  string `json:"total_comisiones"`
	NumeroVentas     int    `json:"numero_ventas"`
	PromedioVenta    string `json:"promedio_venta"`
	PromedioComision string `json:"promedio_comision"`
}

type SummaryView struct {
	ID               int64      `json:"id"`
	Vendedor         int64      `json:"vendedor"`
	VendedorNombre   string     `json:"vendedor_nombre"`
	VendedorApellido string     `json:"vendedor_apellido"`
	FechaInicio      utils.Date `json:"fecha_inicio"`
	FechaFin         utils.Date `json:"fecha_fin"`
	TotalVentas      string     `json:"total_ventas"`
	TotalComision    string     `json:"total_comision"`
	NumeroVentas     int        `json:"numero_ventas"`
	PromedioVenta    string     `json:"promedio_venta"`
	PromedioComision string     `json:"promedio_comision"`
	FechaCalculo     time.Time  `json:"fecha_calculo"`
}

// CommissionResultView is one salesperson's slice of a period aggregation.
type CommissionResultView struct {
	VendedorID       int64      `json:"vendedor_id"`
	VendedorNombre   string     `json:"vendedor_nombre"`
	VendedorApellido string     `json:"vendedor_apellido"`
	TotalVentas      string     `json:"total_ventas"`
	TotalComision    string     `json:"total_comision"`
	NumeroVentas     int        `json:"numero_ventas"`
	PromedioVenta    string     `json:"promedio_venta"`
	PromedioComision string     `json:"promedio_comision"`
	ResumenID        int64      `json:"resumen_id"`
	VentasDetalle    []SaleView `json:"ventas_detalle"`
}

func toSalespersonSimpleView(sp models.Salesperson) SalespersonSimpleView {
	return SalespersonSimpleView{
		ID:             sp.ID,
		Nombre:         sp.FirstName,
		Apellido:       sp.LastName,
		NombreCompleto: sp.FullName(),
		Email:          sp.Email,
	}
}

func toSalespersonSimpleViews(list []models.Salesperson) []SalespersonSimpleView {
	views := make([]SalespersonSimpleView, 0, len(list))
	for _, sp := range list {
		views = append(views, toSalespersonSimpleView(sp))
	}
	return views
}

func toSalespersonView(sp models.Salesperson) SalespersonView {
	return SalespersonView{
		ID:           sp.ID,
		Nombre:       sp.FirstName,
		Apellido:     sp.LastName,
		Email:        sp.Email,
		Telefono:     sp.Phone,
		FechaIngreso: sp.JoinDate,
		Activo:       sp.IsActive,
	}
}

func toSalespersonDetailView(d salespeople.SalespersonDetail) SalespersonDetailView {
	return SalespersonDetailView{
		SalespersonView: toSalespersonView(d.Salesperson),
		TotalVentas:     d.SaleCount,
		TotalComisiones: utils.FormatMoney(d.TotalCommission),
	}
}

func toRuleView(r models.CommissionRule) RuleView {
	return RuleView{
		ID:                r.ID,
		Nombre:            r.Name,
		MontoMinimo:       utils.FormatMoney(r.MinAmount),
		Porcentaje:        utils.FormatMoney(r.Percentage),
		Activa:            r.IsActive,
		FechaCreacion:     r.CreatedAt,
		FechaModificacion: r.UpdatedAt,
	}
}

func toRuleViews(rules []models.CommissionRule) []RuleView {
	views := make([]RuleView, 0, len(rules))
	for _, r := range rules {
		views = append(views, toRuleView(r))
	}
	return views
}

func toSaleView(s models.Sale) SaleView {
	view := SaleView{
		ID:                 s.ID,
		Vendedor:           s.SalespersonID,
		Fecha:              s.Date,
		Monto:              utils.FormatMoney(s.Amount),
		Descripcion:        s.Description,
		ComisionCalculada:  utils.FormatMoney(s.Commission),
		PorcentajeAplicado: utils.FormatMoney(s.AppliedPercentage),
		FechaRegistro:      s.CreatedAt,
	}
	if s.Salesperson != nil {
		view.VendedorNombre = s.Salesperson.FirstName
		view.VendedorApellido = s.Salesperson.LastName
		view.VendedorCompleto = s.Salesperson.FullName()
	}
	return view
}

func toSaleViews(sales []models.Sale) []SaleView {
	views := make([]SaleView, 0, len(sales))
	for _, s := range sales {
		views = append(views, toSaleView(s))
	}
	return views
}

func toStatisticsView(t commission.Totals) StatisticsView {
	return StatisticsView{
		TotalVentas:      utils.FormatMoney(t.TotalAmount),
		TotalComisiones:  utils.FormatMoney(t.TotalCommission),
		NumeroVentas:     t.Count,
		PromedioVenta:    utils.FormatMoney(t.AverageAmount),
		PromedioComision: utils.FormatMoney(t.AverageCommission),
	}
}

func toSummaryView(s models.CommissionSummary) SummaryView {
	view := SummaryView{
		ID:               s.ID,
		Vendedor:         s.SalespersonID,
		FechaInicio:      s.PeriodStart,
		FechaFin:         s.PeriodEnd,
		TotalVentas:      utils.FormatMoney(s.TotalSales),
		TotalComision:    utils.FormatMoney(s.TotalCommission),
		NumeroVentas:     s.SaleCount,
		PromedioVenta:    utils.FormatMoney(commission.Average(s.TotalSales, s.SaleCount)),
		PromedioComision: utils.FormatMoney(commission.Average(s.TotalCommission, s.SaleCount)),
		FechaCalculo:     s.CalculatedAt,
	}
	if s.Salesperson != nil {
		view.VendedorNombre = s.Salesperson.FirstName
		view.VendedorApellido = s.Salesperson.LastName
	}
	return view
}

func toSummaryViews(summaries []models.CommissionSummary) []SummaryView {
	views := make([]SummaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, toSummaryView(s))
	}
	return views
}

func toCommissionResultViews(results []commissions.SalespersonCommission) []CommissionResultView {
	views := make([]CommissionResultView, 0, len(results))
	for _, r := range results {
		views = append(views, CommissionResultView{
			VendedorID:       r.Summary.SalespersonID,
			VendedorNombre:   r.Salesperson.FirstName,
			VendedorApellido: r.Salesperson.LastName,
			TotalVentas:      utils.FormatMoney(r.TotalAmount),
			TotalComision:    utils.FormatMoney(r.TotalCommission),
			NumeroVentas:     r.Count,
			PromedioVenta:    utils.FormatMoney(r.AverageAmount),
			PromedioComision: utils.FormatMoney(r.AverageCommission),
			ResumenID:        r.Summary.ID,
			VentasDetalle:    toSaleViews(r.Sales),
		})
	}
	return views
}
