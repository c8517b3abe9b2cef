package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroselva/liquidacion-api/internal/application/advances"
	"github.com/agroselva/liquidacion-api/internal/application/allocation"
	"github.com/agroselva/liquidacion-api/internal/application/classification"
	"github.com/agroselva/liquidacion-api/internal/application/dto"
	"github.com/agroselva/liquidacion-api/internal/application/kardex"
	"github.com/agroselva/liquidacion-api/internal/application/settlement"
	"github.com/agroselva/liquidacion-api/internal/application/usecase"
	"github.com/agroselva/liquidacion-api/internal/infrastructure/memory"
	apphttp "github.com/agroselva/liquidacion-api/internal/interfaces/http"
)

// buildTestApp arma la aplicación Fiber completa sobre el Store en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()

	advancesUC := advances.NewAdvanceLedgerUseCase(store, store.Advances(), store.Producers())
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		LotUC:        usecase.NewLotUseCase(store.Lots(), store.Producers()),
		ProducerUC:   usecase.NewProducerUseCase(store.Producers()),
		OrderUC:      usecase.NewOrderUseCase(store.Orders()),
		PricebookUC:  usecase.NewPricebookUseCase(store.Pricebooks()),
		ClassifyUC:   classification.NewClassifyLotUseCase(store, store.Pricebooks()),
		SettlementUC: settlement.NewSettlementEngineUseCase(store, advancesUC),
		AdvancesUC:   advancesUC,
		AllocationUC: allocation.NewAllocationUseCase(store, store.Weights(), store.Allocations()),
		KardexUC:     kardex.NewDualKardexUseCase(store, store.Kardex(), store.Lots(), store.Producers()),
	})
	return app
}

// doJSON ejecuta una petición con cuerpo JSON y decodifica la respuesta en out.
func doJSON(t *testing.T, app *fiber.App, method, path string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAPI_FlujoCompletoDeLiquidacion(t *testing.T) {
	app := buildTestApp(t)

	// Tarifario.
	var pricebook dto.PricebookResponse
	status := doJSON(t, app, http.MethodPut, "/api/pricebook", dto.SavePricebookRequest{
		Entries: []dto.PriceEntryDTO{
			{Category: "exportable", UnitPrice: dec("2.50")},
			{Category: "industrial", UnitPrice: dec("1.80")},
		},
	}, &pricebook)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1, pricebook.Version)

	// Productor.
	var producer dto.ProducerResponse
	status = doJSON(t, app, http.MethodPost, "/api/producers", dto.CreateProducerRequest{
		Name: "Aurelio Quispe", Document: "45678912",
	}, &producer)
	require.Equal(t, http.StatusCreated, status)

	// Adelanto de 300.
	var advance dto.AdvanceResponse
	status = doJSON(t, app, http.MethodPost, "/api/producers/"+producer.ID+"/advances", dto.DisburseAdvanceRequest{
		Amount: dec("300.00"), Account: "cash",
	}, &advance)
	require.Equal(t, http.StatusCreated, status)

	// Ingreso del lote.
	var lot dto.LotResponse
	status = doJSON(t, app, http.MethodPost, "/api/lots", dto.CreateLotRequest{
		ProducerID: producer.ID, Product: "kion", GrossWeight: dec("510"),
	}, &lot)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "received", lot.State)

	// Clasificación.
	var classified dto.ClassificationResponse
	status = doJSON(t, app, http.MethodPost, "/api/lots/"+lot.ID+"/classification", dto.ClassifyLotRequest{
		GlobalMoisturePercent: dec("5"),
		Lines: []dto.ClassifyLineRequest{
			{Category: "exportable", Weight: dec("400")},
			{Category: "industrial", Weight: dec("100")},
		},
	}, &classified)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, classified.Lines, 2)
	assert.True(t, dec("950.00").Equal(classified.Lines[0].Subtotal))

	// Liquidación: 1121.00 − 100 flete − 300 adelanto = 721.00.
	var stl dto.SettlementResponse
	status = doJSON(t, app, http.MethodPost, "/api/lots/"+lot.ID+"/settlement", dto.ComputeSettlementRequest{
		FreightCost: dec("100.00"),
	}, &stl)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, dec("721.00").Equal(stl.NetPayable), "neto esperado 721.00, got %s", stl.NetPayable)

	// Liquidar de nuevo sin anular → conflicto.
	var conflict dto.ErrorResponse
	status = doJSON(t, app, http.MethodPost, "/api/lots/"+lot.ID+"/settlement", dto.ComputeSettlementRequest{}, &conflict)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_SETTLED", conflict.Code)

	// Pago.
	var paid dto.SettlementResponse
	status = doJSON(t, app, http.MethodPost, "/api/settlements/"+stl.ID+"/payment", dto.PaySettlementRequest{
		Account: "bank",
	}, &paid)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "paid", paid.State)

	// Estado de cuenta del productor con movimientos de ambos ledgers.
	var statement dto.StatementResponse
	status = doJSON(t, app, http.MethodGet, "/api/producers/"+producer.ID+"/statement", nil, &statement)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, statement.Movements)
}

func TestAPI_MapeoDeErrores(t *testing.T) {
	app := buildTestApp(t)

	// Recurso inexistente → 404.
	var notFound dto.ErrorResponse
	status := doJSON(t, app, http.MethodGet, "/api/lots/00000000-0000-0000-0000-000000000099", nil, &notFound)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", notFound.Code)

	// Validación del cuerpo → 400.
	var invalid dto.ErrorResponse
	status = doJSON(t, app, http.MethodPost, "/api/producers", dto.CreateProducerRequest{Name: "Sin Documento"}, &invalid)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", invalid.Code)

	// Cuerpo no JSON → 400.
	req := httptest.NewRequest(http.MethodPost, "/api/producers", bytes.NewReader([]byte("no-json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_SaldoAsignablePorCategoria(t *testing.T) {
	app := buildTestApp(t)

	doJSON(t, app, http.MethodPut, "/api/pricebook", dto.SavePricebookRequest{
		Entries: []dto.PriceEntryDTO{{Category: "exportable", UnitPrice: dec("2.50")}},
	}, nil)
	var producer dto.ProducerResponse
	doJSON(t, app, http.MethodPost, "/api/producers", dto.CreateProducerRequest{
		Name: "Aurelio Quispe", Document: "45678912",
	}, &producer)
	var lot dto.LotResponse
	doJSON(t, app, http.MethodPost, "/api/lots", dto.CreateLotRequest{
		ProducerID: producer.ID, Product: "kion", GrossWeight: dec("120"),
	}, &lot)
	doJSON(t, app, http.MethodPost, "/api/lots/"+lot.ID+"/classification", dto.ClassifyLotRequest{
		Lines: []dto.ClassifyLineRequest{{Category: "exportable", Weight: dec("120")}},
	}, nil)

	var order dto.OrderResponse
	status := doJSON(t, app, http.MethodPost, "/api/orders", dto.CreateOrderRequest{
		CustomerName: "Exportadora Selva", Product: "kion", RequiredWeight: dec("80"),
	}, &order)
	require.Equal(t, http.StatusCreated, status)

	var alloc dto.AllocationResponse
	status = doJSON(t, app, http.MethodPost, "/api/allocations", dto.AllocateRequest{
		LotID: lot.ID, Category: "exportable", OrderID: order.ID, Weight: dec("80"),
	}, &alloc)
	require.Equal(t, http.StatusCreated, status)

	var balance dto.AvailableBalanceResponse
	status = doJSON(t, app, http.MethodGet, "/api/lots/"+lot.ID+"/categories/exportable/balance", nil, &balance)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, dec("40").Equal(balance.AvailableBalance))

	// Sobregirar el saldo → 409.
	var insufficient dto.ErrorResponse
	status = doJSON(t, app, http.MethodPost, "/api/allocations", dto.AllocateRequest{
		LotID: lot.ID, Category: "exportable", OrderID: order.ID, Weight: dec("41"),
	}, &insufficient)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_BALANCE", insufficient.Code)
}
