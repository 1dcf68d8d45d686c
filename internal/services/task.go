package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrNotTaskOwner = errors.New("task belongs to another user")
)

// TaskService is the tenant-scoped task CRUD. Every operation takes the
// authenticated principal's username (ownerUID) and only touches rows owned
// by it.
type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type SubtaskRequest struct {
	Text string `json:"text" binding:"required"`
}

type CreateTaskRequest struct {
	Title    string           `json:"title" binding:"required"`
	Deadline *time.Time       `json:"deadline"`
	Subtasks []SubtaskRequest `json:"subtasks"`
}

type UpdateTaskRequest struct {
	Title     string           `json:"title" binding:"required"`
	Completed bool             `json:"completed"`
	Subtasks  []SubtaskRequest `json:"subtasks"`
}

func (s *TaskService) List(ownerUID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Preload("Subtasks").
		Where("owner_uid = ?", ownerUID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) ListCompleted(ownerUID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Preload("Subtasks").
		Where("owner_uid = ? AND completed = ?", ownerUID, true).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// ListByDeadline returns the owner's tasks due on the given calendar day.
func (s *TaskService) ListByDeadline(ownerUID string, day time.Time) ([]models.Task, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var tasks []models.Task
	err := s.db.Preload("Subtasks").
		Where("owner_uid = ? AND deadline >= ? AND deadline < ?", ownerUID, start, end).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) Create(ownerUID string, req *CreateTaskRequest) (*models.Task, error) {
	task := models.Task{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Deadline: req.Deadline,
		OwnerUID: ownerUID,
		Subtasks: buildSubtasks(req.Subtasks),
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update modifies a task's title, completion flag and (when provided)
// replaces its subtasks. Rows owned by another user yield ErrNotTaskOwner.
func (s *TaskService) Update(ownerUID, id string, req *UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.OwnerUID != ownerUID {
		return nil, ErrNotTaskOwner
	}

	task.Title = req.Title
	task.Completed = req.Completed

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(req.Subtasks) > 0 {
			if err := tx.Where("task_id = ?", task.ID).Delete(&models.Subtask{}).Error; err != nil {
				return err
			}
			task.Subtasks = buildSubtasks(req.Subtasks)
			for i := range task.Subtasks {
				task.Subtasks[i].TaskID = task.ID
			}
		}
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}

	return s.get(ownerUID, id)
}

func (s *TaskService) Delete(ownerUID, id string) error {
	var task models.Task
	if err := s.db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if task.OwnerUID != ownerUID {
		return ErrNotTaskOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
}

func (s *TaskService) get(ownerUID, id string) (*models.Task, error) {
	var task models.Task
	err := s.db.Preload("Subtasks").
		Where("owner_uid = ?", ownerUID).
		First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func buildSubtasks(reqs []SubtaskRequest) []models.Subtask {
	subtasks := make([]models.Subtask, 0, len(reqs))
	for _, r := range reqs {
		subtasks = append(subtasks, models.Subtask{
			ID:   uuid.NewString(),
			Text: r.Text,
		})
	}
	return subtasks
}
