package simulate

import (
	"github.com/spf13/cobra"

	"github.com/livelist/livelist/cmd/util"
	"github.com/livelist/livelist/internal/config"
)

// bindSimulateFlags binds the cobra cmd flags to the equivalent config value being managed
// by viper. This bridges the config between cobra flags and viper flags.
func bindSimulateFlags(command *cobra.Command) {
	defaultConfig := config.DefaultConfig()
	flags := command.Flags()

	flags.String("log-format", defaultConfig.Log.Format, "the log format to output logs in ('text' or 'json')")
	util.MustBindPFlag("log.format", flags.Lookup("log-format"))
	util.MustBindEnv("log.format", "LIVELIST_LOG_FORMAT")

	flags.String("log-level", defaultConfig.Log.Level, "the log level to use ('none', 'debug', 'info', 'warn', 'error')")
	util.MustBindPFlag("log.level", flags.Lookup("log-level"))
	util.MustBindEnv("log.level", "LIVELIST_LOG_LEVEL")

	flags.Duration("grace-window", defaultConfig.Paging.GraceWindow, "how long an append answered with no items waits for new items at the top of the list")
	util.MustBindPFlag("paging.graceWindow", flags.Lookup("grace-window"))
	util.MustBindEnv("paging.graceWindow", "LIVELIST_PAGING_GRACE_WINDOW", "LIVELIST_PAGING_GRACEWINDOW")

	flags.Int("readers", defaultConfig.Simulation.Readers, "the number of users paging through their inbox concurrently")
	util.MustBindPFlag("simulation.readers", flags.Lookup("readers"))
	util.MustBindEnv("simulation.readers", "LIVELIST_SIMULATION_READERS")

	flags.Int("messages", defaultConfig.Simulation.Messages, "the number of messages seeded before the readers start")
	util.MustBindPFlag("simulation.messages", flags.Lookup("messages"))
	util.MustBindEnv("simulation.messages", "LIVELIST_SIMULATION_MESSAGES")

	flags.Int("page-size", defaultConfig.Simulation.PageSize, "the number of messages loaded per page")
	util.MustBindPFlag("simulation.pageSize", flags.Lookup("page-size"))
	util.MustBindEnv("simulation.pageSize", "LIVELIST_SIMULATION_PAGE_SIZE", "LIVELIST_SIMULATION_PAGESIZE")

	flags.Int("pages", defaultConfig.Simulation.Pages, "the number of pages each reader loads per pass")
	util.MustBindPFlag("simulation.pages", flags.Lookup("pages"))
	util.MustBindEnv("simulation.pages", "LIVELIST_SIMULATION_PAGES")

	flags.Duration("write-interval", defaultConfig.Simulation.WriteInterval, "the time between two writes to the store (0 disables the writer)")
	util.MustBindPFlag("simulation.writeInterval", flags.Lookup("write-interval"))
	util.MustBindEnv("simulation.writeInterval", "LIVELIST_SIMULATION_WRITE_INTERVAL", "LIVELIST_SIMULATION_WRITEINTERVAL")

	flags.Int("fail-every", defaultConfig.Simulation.FailEvery, "fail the next page load after every n-th write (0 disables failures)")
	util.MustBindPFlag("simulation.failEvery", flags.Lookup("fail-every"))
	util.MustBindEnv("simulation.failEvery", "LIVELIST_SIMULATION_FAIL_EVERY", "LIVELIST_SIMULATION_FAILEVERY")

	flags.Duration("duration", defaultConfig.Simulation.Duration, "how long the simulation runs")
	util.MustBindPFlag("simulation.duration", flags.Lookup("duration"))
	util.MustBindEnv("simulation.duration", "LIVELIST_SIMULATION_DURATION")

	flags.Bool("metrics-enabled", defaultConfig.Metrics.Enabled, "enable/disable prometheus metrics on the '/metrics' endpoint")
	util.MustBindPFlag("metrics.enabled", flags.Lookup("metrics-enabled"))
	util.MustBindEnv("metrics.enabled", "LIVELIST_METRICS_ENABLED")

	flags.String("metrics-addr", defaultConfig.Metrics.Addr, "the host:port address to serve the prometheus metrics server on")
	util.MustBindPFlag("metrics.addr", flags.Lookup("metrics-addr"))
	util.MustBindEnv("metrics.addr", "LIVELIST_METRICS_ADDR")

	flags.Bool("trace-enabled", defaultConfig.Trace.Enabled, "enable tracing")
	util.MustBindPFlag("trace.enabled", flags.Lookup("trace-enabled"))
	util.MustBindEnv("trace.enabled", "LIVELIST_TRACE_ENABLED")

	flags.String("trace-otlp-endpoint", defaultConfig.Trace.OTLP.Endpoint, "the endpoint of the trace collector")
	util.MustBindPFlag("trace.otlp.endpoint", flags.Lookup("trace-otlp-endpoint"))
	util.MustBindEnv("trace.otlp.endpoint", "LIVELIST_TRACE_OTLP_ENDPOINT")

	flags.Bool("trace-otlp-tls-enabled", defaultConfig.Trace.OTLP.TLS.Enabled, "use TLS connection for trace collector")
	util.MustBindPFlag("trace.otlp.tls.enabled", flags.Lookup("trace-otlp-tls-enabled"))
	util.MustBindEnv("trace.otlp.tls.enabled", "LIVELIST_TRACE_OTLP_TLS_ENABLED")

	flags.Float64("trace-sample-ratio", defaultConfig.Trace.SampleRatio, "the fraction of traces to sample. 1 means all, 0 means none.")
	util.MustBindPFlag("trace.sampleRatio", flags.Lookup("trace-sample-ratio"))
	util.MustBindEnv("trace.sampleRatio", "LIVELIST_TRACE_SAMPLE_RATIO")

	flags.String("trace-service-name", defaultConfig.Trace.ServiceName, "the service name included in sampled traces")
	util.MustBindPFlag("trace.serviceName", flags.Lookup("trace-service-name"))
	util.MustBindEnv("trace.serviceName", "LIVELIST_TRACE_SERVICE_NAME")
}
