package sim

import "github.com/xela07ax/spaceai-agent-scene/internal/domain"

// TaskRecharging — принудительная задача при падении энергии ниже порога.
const TaskRecharging = "Recharging"

// taskVocabulary — словарь задач по типам агентов. Новая задача при
// вероятностном переключении выбирается равномерно из списка своего типа.
var taskVocabulary = map[domain.AgentType][]string{
	domain.TypeAnalyst: {
		"Analyzing metrics",
		"Correlating signals",
		"Building forecast",
		"Reviewing anomalies",
	},
	domain.TypeCreative: {
		"Drafting concepts",
		"Generating visuals",
		"Writing copy",
		"Exploring variations",
	},
	domain.TypeManager: {
		"Planning roadmap",
		"Reviewing progress",
		"Allocating resources",
		"Syncing with team",
	},
	domain.TypeSecurity: {
		"Scanning perimeter",
		"Auditing access",
		"Rotating credentials",
		"Inspecting traffic",
	},
}

// fallbackTasks — деградация для неизвестного типа: цикл не останавливаем,
// агент просто "думает".
var fallbackTasks = []string{"Thinking"}

func tasksFor(t domain.AgentType) []string {
	if tasks, ok := taskVocabulary[t]; ok {
		return tasks
	}
	return fallbackTasks
}
