package vm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vimma/vimmad/provider"
)

var definedVMsGauge prometheus.Gauge
var poweredOnVMsGauge prometheus.Gauge
var destroyedVMsGauge prometheus.Gauge

func SetupVMMetrics() {
	definedVMsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "vimmad",
		Subsystem: "VMs",
		Name:      "defined",
		Help:      "Total number of VMs defined",
	})

	poweredOnVMsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "vimmad",
		Subsystem: "VMs",
		Name:      "powered_on",
		Help:      "Number of VMs observed powered on",
	})

	destroyedVMsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "vimmad",
		Subsystem: "VMs",
		Name:      "destroyed",
		Help:      "Number of destroyed VMs",
	})
}

// UpdateVMMetrics recomputes the VM gauges from the database. Called
// after each full status sweep.
func UpdateVMMetrics() {
	if definedVMsGauge == nil {
		return
	}

	var defined, poweredOn, destroyed float64

	for _, aVM := range GetAll() {
		defined++
		if aVM.Destroyed() {
			destroyed++

			continue
		}
		if aVM.ObservedPower == provider.PowerOn {
			poweredOn++
		}
	}

	definedVMsGauge.Set(defined)
	poweredOnVMsGauge.Set(poweredOn)
	destroyedVMsGauge.Set(destroyed)
}
