package payment

// CyclesPerGiBMonth and the helpers below are a supplemented feature: they
// exist in the system this protocol was distilled from but are not named in
// the distilled funding-kind/fee-table spec above. Storage is priced
// separately from the per-call RPC fees in feeTable, as a reservation taken
// against ReservedCredit when an upload session starts.
const (
	CyclesPerGiBMonth uint64 = 100_000_000_000
	GiBBytes          uint64 = 1024 * 1024 * 1024

	// DefaultRetentionDays is the storage duration every start_upload
	// reservation assumes; start_upload takes no retention argument.
	DefaultRetentionDays uint32 = 30

	// MinCreditToStartUpload is a minimum reservation figure for
	// start_upload. start_upload does not check a caller's credit against
	// it.
	MinCreditToStartUpload uint64 = 10_000_000
)

// EstimateStorageCost returns the cycles cost of storing sizeBytes for days,
// linearly interpolated from the monthly per-GiB rate.
func EstimateStorageCost(sizeBytes uint64, days uint32) uint64 {
	cyclesPerByteMonth := CyclesPerGiBMonth / GiBBytes
	totalForMonth := sizeBytes * cyclesPerByteMonth
	return (totalForMonth * uint64(days)) / 30
}

// CalculateReservationCost is EstimateStorageCost over the default
// retention window, the figure start_upload reserves against a session's
// ReservedCredit field before any chunk is accepted.
func CalculateReservationCost(sizeBytes uint64) uint64 {
	return EstimateStorageCost(sizeBytes, DefaultRetentionDays)
}
