package cpufreq

import "strconv"

// cpufreq attribute names under cpuN/cpufreq.
const (
	attrDriver      = "scaling_driver"
	attrGovernors   = "scaling_available_governors"
	attrFrequencies = "scaling_available_frequencies"
	attrGovernor    = "scaling_governor"
	attrCurFreq     = "scaling_cur_freq"
	attrSetSpeed    = "scaling_setspeed"
	attrMinFreq     = "scaling_min_freq"
	attrMaxFreq     = "scaling_max_freq"
)

func freqAttr(cpu int, attr string) string {
	return "cpu" + strconv.Itoa(cpu) + "/cpufreq/" + attr
}

func onlineAttr(cpu int) string {
	return "cpu" + strconv.Itoa(cpu) + "/online"
}

func siblingsAttr(cpu int) string {
	return "cpu" + strconv.Itoa(cpu) + "/topology/thread_siblings_list"
}
