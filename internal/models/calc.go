package models

// DateRange is a from/to pair of display dates.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// --- Lumpsum ---

// LumpsumRequest asks for a single purchase held from `from` to `to`.
type LumpsumRequest struct {
	Investment float64 `json:"investment"`
	From       string  `json:"from"`
	To         string  `json:"to"`
}

// LumpsumResult reports the outcome of a lumpsum investment.
// AnnualizedReturn is nil when the holding period cannot be annualized
// (zero days held or non-positive endpoint NAVs).
type LumpsumResult struct {
	InitialInvestment float64  `json:"initialInvestment"`
	UnitsPurchased    float64  `json:"unitsPurchased"`
	CurrentValue      float64  `json:"currentValue"`
	TotalGainLoss     float64  `json:"totalGainLoss"`
	StartDate         string   `json:"startDate"`
	EndDate           string   `json:"endDate"`
	StartNAV          float64  `json:"startNAV"`
	EndNAV            float64  `json:"endNAV"`
	SimpleReturn      float64  `json:"simpleReturn"`
	AnnualizedReturn  *float64 `json:"annualizedReturn"`
}

// --- SIP ---

// SIPRequest asks for a fixed recurring investment simulation.
type SIPRequest struct {
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	From      string  `json:"from"`
	To        string  `json:"to"`
}

// SIPMeta describes the executed plan.
type SIPMeta struct {
	SchemeCode           string `json:"schemeCode"`
	Frequency            string `json:"frequency"`
	Installments         int    `json:"installments"`
	FirstInstallmentDate string `json:"firstInstallmentDate"`
	LastValuationDate    string `json:"lastValuationDate"`
}

// SIPSummary holds the money outcome of a SIP simulation.
type SIPSummary struct {
	SIPAmount        float64  `json:"sipAmount"`
	TotalInvested    float64  `json:"totalInvested"`
	TotalUnits       float64  `json:"totalUnits"`
	CurrentValue     float64  `json:"currentValue"`
	TotalGainLoss    float64  `json:"totalGainLoss"`
	SimpleReturn     float64  `json:"simpleReturn"`
	AnnualizedReturn *float64 `json:"annualizedReturn"`
}

// SIPResult is the full SIP simulation response.
type SIPResult struct {
	Meta    SIPMeta    `json:"meta"`
	Summary SIPSummary `json:"summary"`
}

// --- Step-up SIP ---

// Step-up adjustment kinds.
const (
	StepUpTypePercentage = "percentage"
	StepUpTypeAmount     = "amount"
)

// StepUpSIPRequest asks for a SIP whose installment grows on every
// installment from the second onward.
type StepUpSIPRequest struct {
	InitialInvestment float64 `json:"initialInvestment"`
	From              string  `json:"from"`
	To                string  `json:"to"`
	StepUpType        string  `json:"stepUpType"`
	StepUpValue       float64 `json:"stepUpValue"`
	Frequency         string  `json:"frequency"`
}

// StepUpSIPResult reports the outcome of a step-up SIP simulation.
type StepUpSIPResult struct {
	StartDate          string    `json:"startDate"`
	EndDate            string    `json:"endDate"`
	TotalInvested      float64   `json:"totalInvested"`
	TotalUnits         float64   `json:"totalUnits"`
	CurrentValue       float64   `json:"currentValue"`
	TotalGainLoss      float64   `json:"totalGainLoss"`
	SimpleReturn       float64   `json:"simpleReturn"`
	StepUpType         string    `json:"stepUpType"`
	StepUpValue        float64   `json:"stepUpValue"`
	StepUpAppliedTimes int       `json:"stepUpAppliedTimes"`
	TotalSIPs          int       `json:"totalSIPs"`
	LastSIPAmount      float64   `json:"lastSIPAmount"`
	AvailableNAVRange  DateRange `json:"availableNAVRange"`
}

// --- SWP ---

// Gap policies for withdrawal dates with no resolvable NAV.
const (
	GapPolicyStop = "stop"
	GapPolicySkip = "skip"
)

// SWPRequest asks for a systematic withdrawal simulation. Either `to` or
// `years` bounds the plan; `onGap` selects the gap policy (default stop).
type SWPRequest struct {
	InitialInvestment float64 `json:"initialInvestment"`
	Amount            float64 `json:"amount"`
	Frequency         string  `json:"frequency"`
	From              string  `json:"from"`
	To                string  `json:"to,omitempty"`
	Years             float64 `json:"years,omitempty"`
	OnGap             string  `json:"onGap,omitempty"`
}

// SWPEvent is one withdrawal attempt in the event log.
type SWPEvent struct {
	Date           string   `json:"date"`
	NavDateUsed    string   `json:"navDateUsed,omitempty"`
	Nav            *float64 `json:"nav"`
	UnitsSold      float64  `json:"unitsSold,omitempty"`
	AmountReceived float64  `json:"amountReceived,omitempty"`
	RemainingUnits float64  `json:"remainingUnits,omitempty"`
	Skipped        bool     `json:"skipped,omitempty"`
	Reason         string   `json:"reason,omitempty"`
}

// SWPResult reports the outcome of a SWP simulation. StoppedEarly is set
// when the stop gap policy ended the plan before the requested end date.
type SWPResult struct {
	InitialInvestment float64    `json:"initialInvestment"`
	TotalWithdrawn    float64    `json:"totalWithdrawn"`
	TotalGainLoss     float64    `json:"totalGainLoss"`
	CurrentValue      float64    `json:"currentValue"`
	RemainingUnits    float64    `json:"remainingUnits"`
	FinalNavDate      string     `json:"finalNavDate"`
	FinalNav          float64    `json:"finalNav"`
	Events            []SWPEvent `json:"events"`
	InitialNavDate    string     `json:"initialNavDate"`
	DateRange         DateRange  `json:"dateRange"`
	GapPolicy         string     `json:"gapPolicy"`
	StoppedEarly      bool       `json:"stoppedEarly,omitempty"`
	Warnings          []string   `json:"warnings"`
}

// --- Step-up SWP ---

// StepUpSWPRequest asks for a SWP whose withdrawal grows every 12
// withdrawals.
type StepUpSWPRequest struct {
	InitialCorpus     float64 `json:"initialCorpus"`
	InitialWithdrawal float64 `json:"initialWithdrawal"`
	From              string  `json:"from"`
	To                string  `json:"to"`
	StepUpType        string  `json:"stepUpType"`
	StepUpValue       float64 `json:"stepUpValue"`
	Frequency         string  `json:"frequency"`
}

// StepUpSWPResult reports the outcome of a step-up SWP simulation.
type StepUpSWPResult struct {
	InitialCorpus      float64   `json:"initialCorpus"`
	StartDate          string    `json:"startDate"`
	EndDate            string    `json:"endDate"`
	TotalWithdrawn     float64   `json:"totalWithdrawn"`
	RemainingUnits     float64   `json:"remainingUnits"`
	RemainingValue     float64   `json:"remainingValue"`
	TotalGainLoss      float64   `json:"totalGainLoss"`
	SimpleReturn       float64   `json:"simpleReturn"`
	StepUpType         string    `json:"stepUpType"`
	StepUpValue        float64   `json:"stepUpValue"`
	StepUpAppliedTimes int       `json:"stepUpAppliedTimes"`
	TotalSWPs          int       `json:"totalSWPs"`
	LastSWPAmount      float64   `json:"lastSWPAmount"`
	AvailableNAVRange  DateRange `json:"availableNAVRange"`
}

// --- Period returns ---

// PeriodReturnsRequest partitions [from,to] into windows.
// Period is "monthly", "quarterly", "yearly" or "overall".
type PeriodReturnsRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Period string `json:"period"`
}

// PeriodReturn is the return over one window.
type PeriodReturn struct {
	Period           string   `json:"period"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	StartNAV         float64  `json:"startNAV"`
	EndNAV           float64  `json:"endNAV"`
	SimpleReturn     float64  `json:"simpleReturn"`
	AnnualizedReturn *float64 `json:"annualizedReturn"`
	Days             int      `json:"days"`
}

// PeriodReturnsResult is the full period-returns response.
type PeriodReturnsResult struct {
	Period       string         `json:"period"`
	Returns      []PeriodReturn `json:"returns"`
	TotalPeriods int            `json:"totalPeriods"`
}

// SimpleReturnResult is the two-point return between resolved NAV dates.
type SimpleReturnResult struct {
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	StartNAV         float64  `json:"startNAV"`
	EndNAV           float64  `json:"endNAV"`
	SimpleReturn     float64  `json:"simpleReturn"`
	AnnualizedReturn *float64 `json:"annualizedReturn"`
}

// --- Rolling returns ---

// RollingReturnsRequest anchors rolling lookbacks at one date.
// Interval selects a single interval (e.g. "3year"); empty means all
// standard intervals. Annualize adds CAGR for multi-year intervals.
type RollingReturnsRequest struct {
	On        string `json:"on,omitempty"`
	Interval  string `json:"interval,omitempty"`
	Annualize bool   `json:"annualize,omitempty"`
}

// RollingIntervalResult is the outcome for one lookback interval. Error is
// set (and the numeric fields zero) when history is too short for the
// interval.
type RollingIntervalResult struct {
	StartDate         string   `json:"startDate,omitempty"`
	EndDate           string   `json:"endDate,omitempty"`
	StartNav          float64  `json:"startNav,omitempty"`
	EndNav            float64  `json:"endNav,omitempty"`
	AbsoluteChange    float64  `json:"absoluteChange,omitempty"`
	PercentChange     float64  `json:"percentChange,omitempty"`
	AnnualizedPercent *float64 `json:"annualizedPercent"`
	Error             string   `json:"error,omitempty"`
	StartTarget       string   `json:"startTarget,omitempty"`
}

// RollingReturnsResult maps interval keys to their results.
type RollingReturnsResult struct {
	Code           string                           `json:"code"`
	RequestedDate  string                           `json:"requestedDate,omitempty"`
	DateAdjustedTo string                           `json:"dateAdjustedTo,omitempty"`
	Notice         string                           `json:"notice,omitempty"`
	EndDateUsed    string                           `json:"endDateUsed"`
	Results        map[string]RollingIntervalResult `json:"results"`
}

// --- Rolling returns series ---

// RollingSeriesRequest walks a rolling window across an analysis range.
type RollingSeriesRequest struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Window   string `json:"window,omitempty"`
	StepDays int    `json:"stepDays,omitempty"`
}

// RollingSeriesPoint is one window outcome in the series.
type RollingSeriesPoint struct {
	EndDate          string  `json:"endDate"`
	StartDate        string  `json:"startDate"`
	StartNav         float64 `json:"startNav"`
	EndNav           float64 `json:"endNav"`
	PercentReturn    float64 `json:"percentReturn"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
}

// RollingSeriesStats summarizes the annualized returns of the series.
type RollingSeriesStats struct {
	AverageReturn      float64 `json:"averageReturn"`
	MaxReturn          float64 `json:"maxReturn"`
	MinReturn          float64 `json:"minReturn"`
	PositiveReturns    int     `json:"positiveReturns"`
	NegativeReturns    int     `json:"negativeReturns"`
	PositivePercentage float64 `json:"positivePercentage"`
}

// RollingSeriesResult is the full rolling-series response.
type RollingSeriesResult struct {
	Window          string               `json:"window"`
	WindowYears     int                  `json:"windowYears"`
	AnalysisFrom    string               `json:"analysisFrom"`
	AnalysisTo      string               `json:"analysisTo"`
	TotalDataPoints int                  `json:"totalDataPoints"`
	Statistics      RollingSeriesStats   `json:"statistics"`
	RollingReturns  []RollingSeriesPoint `json:"rollingReturns"`
}
