package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"okrhub_backend/internals/features/okr/tasks/dto"
	"okrhub_backend/internals/features/okr/tasks/model"
	helper "okrhub_backend/internals/helpers"
)

var validate = validator.New()

type TaskController struct {
	DB *gorm.DB
}

func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{DB: db}
}

// GET /api/tasks?linked_to_okr=&assigned_to=
func (ctrl *TaskController) List(c *fiber.Ctx) error {
	query := ctrl.DB.Order("due_date")
	if raw := c.Query("linked_to_okr"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid OKR id")
		}
		query = query.Where("linked_okr_id = ?", id)
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid user id")
		}
		query = query.Where("assigned_to_id = ?", id)
	}

	var tasks []model.TaskModel
	if err := query.Find(&tasks).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch tasks")
	}
	return helper.Success(c, "Tasks fetched", tasks)
}

// GET /api/tasks/:id
func (ctrl *TaskController) Detail(c *fiber.Ctx) error {
	task, err := ctrl.find(c)
	if err != nil {
		return ctrl.taskError(c, err)
	}

	var challenges []model.TaskChallengeModel
	if err := ctrl.DB.Where("task_id = ?", task.ID).Order("due_date").Find(&challenges).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch challenges")
	}
	return helper.Success(c, "Task fetched", fiber.Map{
		"task":       task,
		"challenges": challenges,
	})
}

// POST /api/tasks
func (ctrl *TaskController) Create(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.DueDate.Before(req.StartDate) {
		return helper.Error(c, fiber.StatusBadRequest, "Due date cannot precede start date")
	}

	task := model.TaskModel{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    req.StartDate,
		DueDate:      req.DueDate,
		Status:       model.TaskStatusYetToStart,
		AssignedToID: req.AssignedToID,
		LinkedOKRID:  req.LinkedOKRID,
	}
	if err := ctrl.DB.Create(&task).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create task")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Task created", task)
}

// PUT /api/tasks/:id
func (ctrl *TaskController) Update(c *fiber.Ctx) error {
	task, err := ctrl.find(c)
	if err != nil {
		return ctrl.taskError(c, err)
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(task).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update task")
	}
	return helper.Success(c, "Task updated", task)
}

// DELETE /api/tasks/:id
func (ctrl *TaskController) Delete(c *fiber.Ctx) error {
	task, err := ctrl.find(c)
	if err != nil {
		return ctrl.taskError(c, err)
	}
	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&model.TaskChallengeModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(task).Error
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete task")
	}
	return helper.Success(c, "Task deleted", nil)
}

// GET /api/task-challenges?task_id=&status=
func (ctrl *TaskController) ListChallenges(c *fiber.Ctx) error {
	query := ctrl.DB.Order("due_date")
	if raw := c.Query("task_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid task id")
		}
		query = query.Where("task_id = ?", id)
	}
	if raw := c.Query("status"); raw != "" {
		query = query.Where("status = ?", c.QueryInt("status"))
	}

	var challenges []model.TaskChallengeModel
	if err := query.Find(&challenges).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch challenges")
	}
	return helper.Success(c, "Challenges fetched", challenges)
}

// GET /api/task-challenges/by-task/:task_id
func (ctrl *TaskController) ChallengesByTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("task_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid task id")
	}
	var challenges []model.TaskChallengeModel
	if err := ctrl.DB.Where("task_id = ?", taskID).Order("due_date").Find(&challenges).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch challenges")
	}
	return helper.Success(c, "Challenges fetched", challenges)
}

// POST /api/task-challenges
func (ctrl *TaskController) CreateChallenge(c *fiber.Ctx) error {
	var req dto.CreateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var task model.TaskModel
	if err := ctrl.DB.Where("id = ?", req.TaskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Task not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch task")
	}

	challenge := model.TaskChallengeModel{
		TaskID:        task.ID,
		ChallengeName: req.ChallengeName,
		Status:        req.Status,
		DueDate:       req.DueDate,
		Remarks:       req.Remarks,
	}
	if err := ctrl.DB.Create(&challenge).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to add challenge")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Challenge added", challenge)
}

// PUT /api/task-challenges/:id
func (ctrl *TaskController) UpdateChallenge(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid challenge id")
	}

	var challenge model.TaskChallengeModel
	if err := ctrl.DB.Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Challenge not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch challenge")
	}

	var req dto.UpdateChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid payload")
	}
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return helper.Error(c, fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(&challenge).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update challenge")
	}
	return helper.Success(c, "Challenge updated", challenge)
}

// DELETE /api/task-challenges/:id
func (ctrl *TaskController) DeleteChallenge(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid challenge id")
	}
	res := ctrl.DB.Where("id = ?", challengeID).Delete(&model.TaskChallengeModel{})
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete challenge")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Challenge not found")
	}
	return helper.Success(c, "Challenge deleted", nil)
}

func (ctrl *TaskController) find(c *fiber.Ctx) (*model.TaskModel, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, errBadTaskID
	}
	var task model.TaskModel
	if err := ctrl.DB.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

var errBadTaskID = errors.New("invalid task id")

func (ctrl *TaskController) taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errBadTaskID):
		return helper.Error(c, fiber.StatusBadRequest, "Invalid task id")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return helper.Error(c, fiber.StatusNotFound, "Task not found")
	default:
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to fetch task")
	}
}
