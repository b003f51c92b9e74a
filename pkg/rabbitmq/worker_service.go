package rabbitmq

// WorkerService is a long-running background service started by the
// application at boot (queue drainers, publishers, periodic jobs).
type WorkerService interface {
	GetServiceName() string
	StartService()
}
