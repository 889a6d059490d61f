package service

import (
	"context"
	"fmt"

	"github.com/mhsanaei/todo-api/database"
	"github.com/mhsanaei/todo-api/database/model"

	"gorm.io/gorm"
)

// TaskChanges is a full overwrite of name, description and tags. Finished is
// only written when non-nil, so an omitted value keeps the stored one.
type TaskChanges struct {
	Name        string
	Description *string
	Finished    *bool
	Tags        []string
}

type TaskService struct {
	db    *gorm.DB
	authz *AuthorizationService
}

func NewTaskService(db *gorm.DB, authz *AuthorizationService) *TaskService {
	return &TaskService{db: db, authz: authz}
}

// CreateTask inserts a task owned by creatorId together with its tags and
// returns it with its id.
func (s *TaskService) CreateTask(ctx context.Context, creatorId int, name string, description *string, tags []string) (*model.Task, error) {
	task := &model.Task{
		CreatorId:   creatorId,
		Name:        name,
		Description: description,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		task.Tags = newTags(task.Id, tags)
		if len(task.Tags) == 0 {
			return nil
		}
		return tx.Create(&task.Tags).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// ReadTasks lists the tasks userId created followed by the tasks shared with
// them for reading.
func (s *TaskService) ReadTasks(ctx context.Context, userId int) ([]model.Task, error) {
	tasks, err := visibleTasks(s.db.WithContext(ctx), userId, nil)
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return tasks, nil
}

// FindTasksByTag is ReadTasks narrowed to the tasks carrying a tag named tag.
func (s *TaskService) FindTasksByTag(ctx context.Context, userId int, tag string) ([]model.Task, error) {
	tasks, err := visibleTasks(s.db.WithContext(ctx), userId, &tag)
	if err != nil {
		return nil, fmt.Errorf("find tasks by tag %q: %w", tag, err)
	}
	return tasks, nil
}

// FindTask returns nil, nil both when the task does not exist and when
// userId may not read it.
func (s *TaskService) FindTask(ctx context.Context, userId, taskId int) (*model.Task, error) {
	ok, err := s.authz.IsAuthorized(ctx, userId, taskId, model.PermRead)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	task := &model.Task{}
	err = s.db.WithContext(ctx).Preload("Tags", orderById).First(task, taskId).Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask applies changes if userId created the task or holds an update
// grant. It reports false, with nothing written, otherwise. The gate and the
// writes share one transaction.
func (s *TaskService) UpdateTask(ctx context.Context, userId, taskId int, changes TaskChanges) (bool, error) {
	var description any
	if changes.Description != nil {
		description = *changes.Description
	}
	updates := map[string]any{
		"name":        changes.Name,
		"description": description,
	}
	if changes.Finished != nil {
		updates["finished"] = *changes.Finished
	}

	updated := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := isAuthorized(tx, userId, taskId, model.PermUpdate)
		if err != nil || !ok {
			return err
		}
		if err := tx.Model(&model.Task{}).Where("id = ?", taskId).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskId).Delete(&model.Tag{}).Error; err != nil {
			return err
		}
		if tags := newTags(taskId, changes.Tags); len(tags) > 0 {
			if err := tx.Create(&tags).Error; err != nil {
				return err
			}
		}
		updated = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("update task %d: %w", taskId, err)
	}
	return updated, nil
}

// RemoveTask deletes a task with its tags and grants. Only the creator may
// do this; an update grant is not enough.
func (s *TaskService) RemoveTask(ctx context.Context, userId, taskId int) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := isCreator(tx, userId, taskId)
		if err != nil || !ok {
			return err
		}
		if err := tx.Where("task_id = ?", taskId).Delete(&model.Permission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskId).Delete(&model.Tag{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Task{}, taskId).Error; err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("remove task %d: %w", taskId, err)
	}
	return removed, nil
}

const taggedFilter = ` AND EXISTS (SELECT 1 FROM tags AS g WHERE g.task_id = t.id AND g.name = ?)`

// visibleTasks runs the created-or-shared-for-reading union, optionally
// narrowed to one tag name. The second branch skips the user's own tasks, so
// the concatenation never repeats a row.
func visibleTasks(tx *gorm.DB, userId int, tag *string) ([]model.Task, error) {
	filter := ""
	created := []any{userId}
	shared := []any{userId, string(model.PermRead), userId}
	if tag != nil {
		filter = taggedFilter
		created = append(created, *tag)
		shared = append(shared, *tag)
	}
	query := `SELECT t.* FROM tasks AS t WHERE t.creator_id = ?` + filter + `
		UNION ALL
		SELECT t.* FROM tasks AS t
		JOIN permissions AS p ON p.task_id = t.id
		WHERE p.user_id = ? AND p.perm_type = ? AND t.creator_id <> ?` + filter

	tasks := make([]model.Task, 0)
	if err := tx.Raw(query, append(created, shared...)...).Scan(&tasks).Error; err != nil {
		return nil, err
	}
	if err := loadTags(tx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// loadTags fills Tags on every task with a single query.
func loadTags(tx *gorm.DB, tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]int, 0, len(tasks))
	byTask := make(map[int]int, len(tasks))
	for i := range tasks {
		tasks[i].Tags = make([]model.Tag, 0)
		byTask[tasks[i].Id] = i
		ids = append(ids, tasks[i].Id)
	}
	var tags []model.Tag
	if err := tx.Where("task_id IN ?", ids).Scopes(orderById).Find(&tags).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		i := byTask[tag.TaskId]
		tasks[i].Tags = append(tasks[i].Tags, tag)
	}
	return nil
}

func newTags(taskId int, names []string) []model.Tag {
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, model.Tag{TaskId: taskId, Name: name})
	}
	return tags
}

func orderById(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
