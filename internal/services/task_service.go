package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harborlight/foundation-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNotTaskOwner     = errors.New("task is assigned to another user")
	ErrInvalidTaskState = errors.New("invalid task status")
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// canModifyTask is the ownership rule: the assignee may modify their own
// task, and any admin-or-higher role bypasses the check. The bypass is a
// rank comparison so super_admin is covered without naming it.
func canModifyTask(task *models.Task, userID uuid.UUID, role models.Role) bool {
	if role.AtLeast(models.RoleAdmin) {
		return true
	}
	return task.AssignedToID != nil && *task.AssignedToID == userID
}

// ListForUser returns tasks visible to the caller: admin-or-higher sees all,
// staff sees only tasks assigned to them.
func (s *TaskService) ListForUser(userID uuid.UUID, role models.Role, status string, page, limit int) ([]models.Task, int64, error) {
	var tasks []models.Task
	var total int64

	query := s.db.Model(&models.Task{})
	if !role.AtLeast(models.RoleAdmin) {
		query = query.Where("assigned_to_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tasks).Error
	return tasks, total, err
}

func (s *TaskService) UpdateStatus(taskID, userID uuid.UUID, role models.Role, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskState
	}

	var task models.Task
	if err := s.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup task: %w", err)
	}

	if !canModifyTask(&task, userID, role) {
		return nil, ErrNotTaskOwner
	}

	if err := s.db.Model(&task).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}
	task.Status = status
	return &task, nil
}

func (s *TaskService) Create(createdBy uuid.UUID, title, description string, assignedTo *uuid.UUID, dueDate *time.Time) (*models.Task, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}

	task := models.Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		Status:       models.TaskPending,
		AssignedToID: assignedTo,
		CreatedByID:  createdBy,
		DueDate:      dueDate,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

func (s *TaskService) Delete(id uuid.UUID) error {
	result := s.db.Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
