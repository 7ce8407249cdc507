package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTasks(t *testing.T) {
	text := `TASK task_1:
Title: Gather requirements
Description: Interview stakeholders and write a brief.
Dependencies: none
Complexity: LOW
Expertise: product

TASK task_2:
Title: Build prototype
Description: Implement a throwaway prototype.
Dependencies: task_1, task_1, task_9
Complexity: HIGH
Expertise: engineering`

	tasks := ParseTasks(text)
	assert.Len(t, tasks, 2)
	assert.Equal(t, "task_1", tasks[0].ID)
	assert.Equal(t, ComplexityLow, tasks[0].Complexity)
	assert.Nil(t, tasks[0].Dependencies)
	assert.Equal(t, "task_2", tasks[1].ID)
	assert.Equal(t, []string{"task_1", "task_1", "task_9"}, tasks[1].Dependencies)

	cleaned := CleanDependencies(tasks)
	assert.Equal(t, []string{"task_1", "task_1"}, cleaned[1].Dependencies) // task_9 dropped, self-ref n/a
}

func TestParseTasks_DefaultComplexity(t *testing.T) {
	text := "TASK task_1:\nTitle: Unspecified complexity\nDescription: x"
	tasks := ParseTasks(text)
	assert.Len(t, tasks, 1)
	assert.Equal(t, ComplexityMedium, tasks[0].Complexity)
}

func TestCleanDependencies_SelfRef(t *testing.T) {
	tasks := []Task{{ID: "task_1", Dependencies: []string{"task_1", "task_2"}}, {ID: "task_2"}}
	cleaned := CleanDependencies(tasks)
	assert.Equal(t, []string{"task_2"}, cleaned[0].Dependencies)
}
