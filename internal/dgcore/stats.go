package dgcore

// Stats is the run's final tally, returned by Scheduler.Generate and
// printed by the CLI collaborator's post-run summary (spec §6.3).
type Stats struct {
	FilesGenerated uint64
	DirsGenerated  uint64
	BytesGenerated uint64
}
